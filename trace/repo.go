package trace

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	// CacheDirName and CacheRepoDirName locate cloned scenario repos under
	// the user's XDG data directory, unchanged from the teacher's source
	// package.
	CacheDirName     = "schedsim"
	CacheRepoDirName = "scenario-repos"

	// ScenarioFileName is the path, within a scenario repo, of the
	// scenario text file a commit carries.
	ScenarioFileName = "scenario.txt"
)

// ResolveOpts mirrors the teacher's ResolveRepoOpts: by default scenario
// repos are cloned/fetched to the XDG cache directory; InMemory skips the
// filesystem entirely.
type ResolveOpts struct {
	InMemory bool
}

// ScenarioRepo is a git repository whose commit history is a sequence of
// scheduling scenarios: each commit's scenario.txt is one Scenario.
type ScenarioRepo struct {
	URL  string
	repo *git.Repository
}

// CommitScenario pairs a commit's metadata with the Scenario its
// scenario.txt describes at that point in history.
type CommitScenario struct {
	Hash     string
	Date     time.Time
	Author   string
	Scenario *Scenario
}

// ResolveScenarioRepo retrieves the scenario repo at url, following the
// teacher's ResolveRepo caching strategy: clone into the XDG cache on
// first use, fetch on subsequent calls, or clone straight to memory when
// opts.InMemory is set.
func ResolveScenarioRepo(url string, opts ...ResolveOpts) (*ScenarioRepo, error) {
	conf := ResolveOpts{}
	if len(opts) > 0 {
		conf = opts[len(opts)-1]
	}
	if conf.InMemory {
		return newInMemScenarioRepo(url)
	}

	fp := filepath.Join(defaultCacheLocation(), encodedCacheName(url))
	if _, err := os.Stat(fp); err != nil {
		return newFSScenarioRepo(url, fp)
	}

	ref, err := git.PlainOpen(fp)
	if err != nil {
		return nil, fmt.Errorf("trace: opening cached scenario repo: %w", err)
	}
	if err := ref.Fetch(&git.FetchOptions{RemoteURL: url}); err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("trace: fetching scenario repo updates: %w", err)
	}
	return &ScenarioRepo{URL: url, repo: ref}, nil
}

func newFSScenarioRepo(url, fp string) (*ScenarioRepo, error) {
	if err := ensureCacheDir(); err != nil {
		return nil, fmt.Errorf("trace: ensuring scenario cache dir: %w", err)
	}
	ref, err := git.PlainClone(fp, false, &git.CloneOptions{URL: url})
	if err != nil {
		return nil, fmt.Errorf("trace: cloning scenario repo: %w", err)
	}
	return &ScenarioRepo{URL: url, repo: ref}, nil
}

func newInMemScenarioRepo(url string) (*ScenarioRepo, error) {
	ref, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: url})
	if err != nil {
		return nil, fmt.Errorf("trace: cloning scenario repo in memory: %w", err)
	}
	return &ScenarioRepo{URL: url, repo: ref}, nil
}

// Scenarios walks the repo's commit history, oldest first, and parses
// scenario.txt as it stood at each commit. Commits that don't carry the
// file are skipped rather than treated as errors, since a scenario repo's
// early history may predate it.
func (sr *ScenarioRepo) Scenarios() ([]CommitScenario, error) {
	if sr.repo == nil {
		return nil, fmt.Errorf("trace: scenario repo has no backing git repository")
	}
	commits, err := sr.repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("trace: walking scenario repo history: %w", err)
	}

	var out []CommitScenario
	walkErr := commits.ForEach(func(c *object.Commit) error {
		f, err := c.File(ScenarioFileName)
		if err != nil {
			return nil // no scenario at this commit, keep walking
		}
		contents, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s at commit %s: %w", ScenarioFileName, c.Hash, err)
		}
		sc, err := Parse(c.Hash.String(), strings.NewReader(contents))
		if err != nil {
			return fmt.Errorf("parsing scenario at commit %s: %w", c.Hash, err)
		}
		out = append(out, CommitScenario{
			Hash:     c.Hash.String(),
			Date:     c.Committer.When,
			Author:   c.Author.Name,
			Scenario: sc,
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	// go-git walks newest first; reverse so scenarios replay oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func ensureCacheDir() error {
	fp := defaultCacheLocation()
	if _, err := os.Stat(fp); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(fp, 0o777)
		}
		return err
	}
	return nil
}

func defaultCacheLocation() string {
	return filepath.Join(xdg.DataHome, CacheDirName, CacheRepoDirName)
}

func encodedCacheName(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}
