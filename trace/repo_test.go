package trace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestScenariosEmptyRepoFails(t *testing.T) {
	sr := &ScenarioRepo{URL: "fake-url"}
	if _, err := sr.Scenarios(); err == nil {
		t.Log("expected an error when the scenario repo has no backing git repository")
		t.Fail()
	}
}

func TestScenariosReadsCommitHistoryOldestFirst(t *testing.T) {
	dir := t.TempDir()
	ref, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init test repo: %s", err)
	}
	wt, err := ref.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %s", err)
	}

	commitScenario(t, dir, wt, "bootstrap init\n")
	commitScenario(t, dir, wt, "bootstrap init\nfork init shell\n")

	sr := &ScenarioRepo{URL: dir, repo: ref}
	scenarios, err := sr.Scenarios()
	if err != nil {
		t.Fatalf("unexpected error reading scenario history: %s", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenario commits, got %d", len(scenarios))
	}
	if len(scenarios[0].Scenario.Steps) != 1 {
		t.Fatalf("expected the oldest commit's scenario to come first, had %d steps", len(scenarios[0].Scenario.Steps))
	}
	if len(scenarios[1].Scenario.Steps) != 2 {
		t.Fatalf("expected the newest commit's scenario to come last, had %d steps", len(scenarios[1].Scenario.Steps))
	}
}

func commitScenario(t *testing.T, dir string, wt *git.Worktree, contents string) {
	t.Helper()
	fp := filepath.Join(dir, ScenarioFileName)
	if err := os.WriteFile(fp, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed writing scenario file: %s", err)
	}
	if _, err := wt.Add(ScenarioFileName); err != nil {
		t.Fatalf("failed staging scenario file: %s", err)
	}
	_, err := wt.Commit("scenario update", &git.CommitOptions{
		Author: &object.Signature{Name: "schedsim-test", Email: "test@schedsim.local", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed committing scenario file: %s", err)
	}
}
