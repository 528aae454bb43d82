package plib

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NewLinuxInspector takes an optional [LinuxInspectorConfig] and returns a
// configured LinuxInspector, which can be used to operate on processes with
// functions like [LinuxInspector.ListProcesses].
//
// The variadic nature of opts is only present to
// make this argument optional. Do not pass multiple opts arguments to this
// function. If you do, the last opt argument passed will be used.
//
// For any required confiuration not specified in the opts argument, including
// if opts is nil, defaults will be set.
func NewLinuxInspector(opts ...LinuxInspectorConfig) LinuxInspector {
	var config LinuxInspectorConfig
	// if opts was passed, used the last indexed argument
	if len(opts) > 0 {
		config = opts[len(opts)-1]
	}

	return LinuxInspector{
		LinuxInspectorConfig: config,
	}
}

// procfsRoot returns the procfs path the inspector was configured with, or
// defaultProcDir if none was given.
func (l *LinuxInspector) procfsRoot() string {
	if l.ProcfsFilePath == "" {
		return defaultProcDir
	}
	return l.ProcfsFilePath
}

// ListProcesses snapshots every process currently visible under the
// inspector's configured procfs root. This is the path trace.SeedFromHost
// uses to turn a real host's process tree into a fork-storm scenario.
func (l *LinuxInspector) ListProcesses() ([]Process, error) {
	return GetProcesses(l.procfsRoot(), ListOptions{IncludeKernel: true, IncludePermissionIssues: true})
}

// GetProcessesByName looks up every process whose command name matches name
// under the given procfs root, after GetProcesses' kernel and permission
// filtering for opts (by default both kinds are left out). An error is
// returned if process lookup failed. If no process with the provided name is found, an empty slice is
// returned.
func GetProcessesByName(procfsFp, name string, opts ...ListOptions) ([]Process, error) {
	results := []Process{}
	ps, err := GetProcesses(procfsFp, opts...)
	if err != nil {
		return []Process{}, err
	}
	for i := range ps {
		if ps[i].CommandName == name {
			results = append(results, ps[i])
		}
	}

	return results, nil
}

// getPIDs returns every process ID known to procfs at procfsFp. A process ID
// is considered valid if it is a directory with a numeric name. An error is
// returned when getPIDs is unable to read procfs.
func getPIDs(procfsFp string) ([]int, error) {
	procDirs, err := os.ReadDir(procfsFp)
	if err != nil {
		return nil, err
	}

	pids := []int{}
	for _, p := range procDirs {
		// When a directory name is not [^0-9], its not a process and is skipped.
		pid, err := strconv.Atoi(p.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}

	return pids, nil
}

// LoadProcessName returns the name of the process for the provided PID. If the
// name cannot be resolved, an empty string is returned.
func LoadProcessName(procfsFp string, pid int) (string, error) {
	path, err := LoadProcessPath(procfsFp, pid)
	if err != nil {
		return "", err
	}
	dirs := strings.Split(path, string(os.PathSeparator))
	if len(dirs) < 1 {
		return "", nil
	}
	return dirs[len(dirs)-1], nil
}

// LoadProcessSHA evaluates the sha256 value of the binary.
func LoadProcessSHA(path string) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}

// LoadProcessPath returns the path, or location, of the binary being executed
// as a process. To reliably determine the path, it reads the symbolic link in
// ${procfsFp}/${PID}/exe and resolves the final file as seperated by "/".
// While a reliable way to approach process resolution on Linux, it does
// require root access to resolve.
func LoadProcessPath(procfsFp string, pid int) (string, error) {
	exeLink, err := os.Readlink(filepath.Join(procfsFp, strconv.Itoa(pid), exeDir))
	if err != nil {
		return "", err
	}
	return exeLink, nil
}

// LoadProcessDetails introspects the process's directory in procfs to retrieve
// relevant information and produce an instance of Process. The generated
// Process object is then returned. No error is returned, as missing
// information or lack of access to data in procfs will result in missing
// information in the generated returned Process.
func LoadProcessDetails(procfsFp string, pid int) Process {
	hasPerm := true
	isK := false
	var sha string
	name, err := LoadProcessName(procfsFp, pid)

	// when error is bubbled up, determine why to set name correctly
	if err != nil {
		switch {
		case os.IsPermission(err):
			name = permDenied
			hasPerm = false
		case os.IsNotExist(err):
			stat, err := os.ReadFile(filepath.Join(procfsFp, strconv.Itoa(pid), statDir))
			if err != nil {
				name = "ERROR_UNKNOWN"
			} else {
				parsedStats := strings.Split(string(stat), " ")
				name = parsedStats[1]
				isK = true
			}
		default:
			name = "ERROR_UNKNOWN"
		}
	}
	path, err := LoadProcessPath(procfsFp, pid)
	if err != nil {
		if os.IsPermission(err) {
			path = permDenied
			sha = permDenied
		} else {
			path = statError
			sha = statError
		}
	} else {
		sha = LoadProcessSHA(path)
	}
	stat := LoadStat(procfsFp, pid)

	return Process{
		ID:            pid,
		IsKernel:      isK,
		HasPermission: hasPerm,
		CommandName:   name,
		CommandPath:   path,
		ParentProcess: stat.ParentID,
		BinarySHA:     sha,
		Stat:          &stat,
	}
}

// GetProcesses retrieves all the processes visible under procfsFp. It
// introspects each process to gather data and returns a slice of Process
// values. An error is returned when GetProcesses is unable to interact with
// procfs.
func GetProcesses(procfsFp string, opts ...ListOptions) ([]Process, error) {
	opt := MergeOptions(opts)
	pids, err := getPIDs(procfsFp)
	if err != nil {
		return nil, err
	}

	procs := []Process{}

	for _, pid := range pids {
		p := LoadProcessDetails(procfsFp, pid)
		switch {
		// filter out kernel processes and permission issues
		case !opt.IncludeKernel && !opt.IncludePermissionIssues:
			if !p.IsKernel && p.HasPermission {
				procs = append(procs, p)
			}
		// filter out permission issues, include kernel processes
		case opt.IncludeKernel && !opt.IncludePermissionIssues:
			if p.HasPermission {
				procs = append(procs, p)
			}
		// filter out kernel processes, include permission issues
		case !opt.IncludeKernel && opt.IncludePermissionIssues:
			if !p.IsKernel {
				procs = append(procs, p)
			}
		// include all processes
		case opt.IncludeKernel && opt.IncludePermissionIssues:
			procs = append(procs, p)
		}
	}

	return procs, nil
}

func MergeOptions(opts []ListOptions) ListOptions {
	// default case when opts are empty
	if len(opts) < 1 {
		return ListOptions{}
	}
	// TODO(joshrosso): Need to do actual merge logic rather than perferring
	// first option
	return opts[0]
}

// LoadStat translates fields in the stat file (${procfsFp}/${PID}/stat) into
// structured data. Details on stat contents can be found at
// https://www.kernel.org/doc/html/latest/filesystems/proc.html#id10.
func LoadStat(procfsFp string, pid int) ProcessStat {
	ps := ProcessStat{}
	stat, err := os.ReadFile(filepath.Join(procfsFp, strconv.Itoa(pid), statDir))
	if err != nil {
		return ps
	}
	parsedStats := strings.Split(string(stat), " ")

	for i, stat := range parsedStats {
		switch i {
		case 0:
			ps.ID, _ = strconv.Atoi(stat)
		case 1:
			ps.FileName = stat
		case 2:
			ps.State = stat
		case 3:
			ps.ParentID, _ = strconv.Atoi(stat)
		case 4:
			ps.ProcessGroup, _ = strconv.Atoi(stat)
		case 5:
			ps.SessionID, _ = strconv.Atoi(stat)
		case 6:
			ps.TTY, _ = strconv.Atoi(stat)
		case 7:
			ps.TTYProcessGroup, _ = strconv.Atoi(stat)
		case 8:
			ps.TaskFlags = stat
		case 9:
			ps.MinorFaultQuantity, _ = strconv.Atoi(stat)
		case 10:
			ps.MinorFaultWithChildQuantity, _ = strconv.Atoi(stat)
		case 11:
			ps.MajorFaultQuantity, _ = strconv.Atoi(stat)
		case 12:
			ps.MajorFaultWithChildQuantity, _ = strconv.Atoi(stat)
		case 13:
			ps.UserModeTime, _ = strconv.Atoi(stat)
		case 14:
			ps.KernalTime, _ = strconv.Atoi(stat)
		case 15:
			ps.UserModeTimeWithChild, _ = strconv.Atoi(stat)
		case 16:
			ps.KernalTimeWithChild, _ = strconv.Atoi(stat)
		case 17:
			ps.Priority, _ = strconv.Atoi(stat)
		case 18:
			ps.Nice, _ = strconv.Atoi(stat)
		case 19:
			ps.ThreadQuantity, _ = strconv.Atoi(stat)
		case 20:
			ps.ItRealValue, _ = strconv.Atoi(stat)
		case 21:
			ps.StartTime, _ = strconv.Atoi(stat)
		case 22:
			ps.VirtualMemSize, _ = strconv.Atoi(stat)
		case 23:
			ps.ResidentSetMemSize, _ = strconv.Atoi(stat)
		case 24:
			ps.RSSByteLimit, _ = strconv.Atoi(stat)
		case 25:
			ps.StartCode = ConvertToHexMemoryAddress(stat)
		case 26:
			ps.EndCode = ConvertToHexMemoryAddress(stat)
		case 27:
			ps.StartStack = ConvertToHexMemoryAddress(stat)
		case 28:
			ps.ExtendedStackPointerAddress, _ = strconv.Atoi(stat)
		case 29:
			ps.ExtendedInstructionPointer, _ = strconv.Atoi(stat)
		case 30:
			ps.SignalPendingQuantity, _ = strconv.Atoi(stat)
		case 31:
			ps.SignalsBlockedQuantity, _ = strconv.Atoi(stat)
		case 32:
			ps.SignalsIgnoredQuantity, _ = strconv.Atoi(stat)
		case 33:
			ps.SiganlsCaughtQuantity, _ = strconv.Atoi(stat)
		case 34:
			ps.PlaceHolder1, _ = strconv.Atoi(stat)
		case 35:
			ps.PlaceHolder2, _ = strconv.Atoi(stat)
		case 36:
			ps.PlaceHolder3, _ = strconv.Atoi(stat)
		case 37:
			signalNumeric, _ := strconv.Atoi(stat)
			ps.ExitSignal = Signal(signalNumeric)
		case 38:
			ps.CPU, _ = strconv.Atoi(stat)
		case 39:
			ps.RealtimePriority, _ = strconv.Atoi(stat)
		case 40:
			ps.SchedulingPolicy, _ = strconv.Atoi(stat)
		case 41:
			ps.TimeSpentOnBlockIO, _ = strconv.Atoi(stat)
		case 42:
			ps.GuestTime, _ = strconv.Atoi(stat)
		case 43:
			ps.GuestTimeWithChild, _ = strconv.Atoi(stat)
		case 44:
			ps.StartDataAddress = ConvertToHexMemoryAddress(stat)
		case 45:
			ps.EndDataAddress = ConvertToHexMemoryAddress(stat)
		case 46:
			ps.HeapExpansionAddress = ConvertToHexMemoryAddress(stat)
		case 47:
			ps.StartCMDAddress = ConvertToHexMemoryAddress(stat)
		case 48:
			ps.EndCMDAddress = ConvertToHexMemoryAddress(stat)
		case 49:
			ps.StartEnvAddress = ConvertToHexMemoryAddress(stat)
		case 50:
			ps.EndEnvAddress = ConvertToHexMemoryAddress(stat)
		case 51:
			ps.ExitCode, _ = strconv.Atoi(stat)
		}
	}

	return ps
}

// ConvertToHexMemoryAddress takes a memory address, represented as a decimal
// (the default for Linux's procfs) and converts it to a memory address in
// hexadecimal notation. Note the returned value will contain the '0x'
// notation.
func ConvertToHexMemoryAddress(decimalAddr string) string {
	d, _ := strconv.Atoi(decimalAddr)
	return fmt.Sprintf("0x%x", d)
}
