package plib

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const (
	DefaultFilePerms = 0777
	StatDirName      = "stat"
	HackDir          = "hack"
	TestingDir       = "test"
	TestDataDir      = "data-dir"
	TestProcDir      = "proc"
	StatData1002     = `1002 (Thunar) S 898 898 898 0 -1 4194304 9075 31619 19 0 242 54 42 7 20 0 3 0 4316 499617792 14545 18446744073709551615 94657007656960 94657008059597 140727172487872 0 0 0 0 4096 0 0 0 0 17 10 0 0 0 0 0 94657008206176 94657008240992 94657028120576 140727172496280 140727172496349 140727172496349 140727172497384 0`
	StatData68657    = `68657 (chromium) S 68654 68650 68650 0 -1 4194560 1462096 116023 16 0 13834 4693 47 34 20 0 23 0 7679775 35172757504 80617 18446744073709551615 94708279918592 94708471088624 140731884479632 0 0 0 0 4096 1098990847 0 0 0 17 0 0 0 0 0 0 94708479643648 94708480167272 94708482572288 140731884485166 140731884485225 140731884485225 140731884486621 0`
)

// TestListProcesses exercises the LinuxInspector.ListProcesses path
// (GetProcesses -> getPIDs -> LoadProcessDetails -> LoadStat) against a mock
// procfs tree, the same path trace.SeedFromHost drives against the real
// host.
func TestListProcesses(t *testing.T) {
	procFp, err := createMockProcDir()
	if err != nil {
		t.Fatalf("failed setting up sample data for test: %s", err)
	}
	defer cleanTestData()
	if err := createDirsAndSampleData(procFp); err != nil {
		t.Fatalf("failed setting up sample data for test: %s", err)
	}

	li := NewLinuxInspector(LinuxInspectorConfig{ProcfsFilePath: procFp})
	ps, err := li.ListProcesses()
	if err != nil {
		t.Fatalf("failed retrieving processes: %s", err)
	}
	if len(ps) != 2 {
		t.Fatalf("%d processes were returned, when we expected there to be %d.", len(ps), 2)
	}

	byID := map[int]Process{}
	for _, p := range ps {
		byID[p.ID] = p
	}

	if byID[1002].CommandName != "(Thunar)" {
		t.Logf("command name for process %d was: %s but we expected %s", 1002, byID[1002].CommandName, "(Thunar)")
		t.Fail()
	}
	if byID[68657].CommandName != "(chromium)" {
		t.Logf("command name for process %d was: %s but we expected %s", 68657, byID[68657].CommandName, "(chromium)")
		t.Fail()
	}
}

// TestListProcessesBadProcfs verifies an error is returned when the
// configured procfs path doesn't exist.
func TestListProcessesBadProcfs(t *testing.T) {
	badProcFsPath := filepath.Join("hack", "fake", "path")
	li := NewLinuxInspector(LinuxInspectorConfig{ProcfsFilePath: badProcFsPath})
	if _, err := li.ListProcesses(); err == nil {
		t.Logf("error was expected since procfs (%s) is not a real location. However no error was returned.", badProcFsPath)
		t.Fail()
	}
}

// TestListProcessesDefaultsToProcfsRoot verifies an inspector with no
// configured ProcfsFilePath falls back to defaultProcDir.
func TestListProcessesDefaultsToProcfsRoot(t *testing.T) {
	li := NewLinuxInspector()
	if li.procfsRoot() != defaultProcDir {
		t.Fatalf("expected default procfs root %s, got %s", defaultProcDir, li.procfsRoot())
	}
}

func TestGetProcessesByName(t *testing.T) {
	procFp, err := createMockProcDir()
	if err != nil {
		t.Fatalf("failed setting up sample data for test: %s", err)
	}
	defer cleanTestData()
	if err := createDirsAndSampleData(procFp); err != nil {
		t.Fatalf("failed setting up sample data for test: %s", err)
	}

	// The mock processes have no exe link, so they are classed as kernel
	// processes and need IncludeKernel to be listed.
	ps, err := GetProcessesByName(procFp, "(chromium)", ListOptions{IncludeKernel: true})
	if err != nil {
		t.Fatalf("failed retrieving processes: %s", err)
	}
	if len(ps) != 1 || ps[0].ID != 68657 {
		t.Fatalf("expected exactly one match for (chromium) with pid 68657, got %+v", ps)
	}
}

func createDirsAndSampleData(procFp string) error {
	sampleData := []struct {
		pid  string
		data string
	}{
		{"1002", StatData1002},
		{"68657", StatData68657},
	}

	for _, p := range sampleData {
		pfp := filepath.Join(procFp, p.pid)
		if err := os.MkdirAll(pfp, DefaultFilePerms); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pfp, StatDirName), []byte(p.data), DefaultFilePerms); err != nil {
			return err
		}
	}
	return nil
}

func createMockProcDir() (string, error) {
	fp := getTestProcDir()
	if _, err := os.Stat(fp); err == nil {
		if err := os.RemoveAll(fp); err != nil {
			return "", fmt.Errorf("failed cleaning existing testing data directory: %s", err)
		}
	}

	if err := os.MkdirAll(fp, DefaultFilePerms); err != nil {
		return "", fmt.Errorf("failed creating testing data directory: %s", err)
	}

	return fp, nil
}

func getTestProcDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(cwd), HackDir, TestingDir, TestDataDir, TestProcDir)
}

func cleanTestData() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	fp := filepath.Join(filepath.Dir(cwd), HackDir, TestingDir, TestDataDir)
	os.RemoveAll(fp)
}
