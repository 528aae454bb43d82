// Package github fetches scenario bundles published as GitHub release
// artifacts, the same job the teacher's platforms/github package did for
// build artifacts.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// bundleExtensions lists the file suffixes treated as scenario bundles
// among a release's assets.
var bundleExtensions = []string{".txt", ".scenario"}

type Release struct {
	Name      string
	Tag       string
	Artifacts []Artifact
}

type Artifact struct {
	Name        string
	URL         string
	ContentType string
}

// BundleManager retrieves scenario-bundle releases from GitHub.
type BundleManager struct {
	BundleManagerConfig
	client *github.Client
}

// BundleManagerConfig configures a BundleManager.
type BundleManagerConfig struct {
	// GHToken authenticates requests against GitHub; required to read
	// releases of private scenario repositories.
	GHToken string
}

// NewBundleManager takes an optional configuration (conf) and returns a
// BundleManager. Only the last conf argument passed is used.
func NewBundleManager(conf ...BundleManagerConfig) BundleManager {
	opts := BundleManagerConfig{}
	if len(conf) > 0 {
		opts = conf[len(conf)-1]
	}
	var httpClient *http.Client
	if opts.GHToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.GHToken})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	return BundleManager{BundleManagerConfig: opts, client: github.NewClient(httpClient)}
}

// GetScenarioBundles lists repoURL's ("org/repo") releases, narrowed down
// to the ones that actually publish scenario bundles: each release's
// assets are filtered through FilterScenarioArtifacts, and releases left
// with no scenario bundles are dropped entirely rather than returned as
// empty-artifact noise. Draft releases are skipped, since schedsim has no
// use listing a scenario bundle that isn't actually downloadable yet.
func (b *BundleManager) GetScenarioBundles(repoURL string) ([]Release, error) {
	repo := strings.Split(repoURL, "/")
	if len(repo) < 2 {
		return nil, fmt.Errorf("repoURL (%s) was invalid, want $ORG/$REPO", repoURL)
	}
	releases, _, err := b.client.Repositories.ListReleases(context.Background(), repo[0], repo[1], &github.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed retrieving releases from GitHub for (%s): %w", repoURL, err)
	}

	out := []Release{}
	for _, release := range releases {
		if release.GetDraft() {
			continue
		}
		var artifacts []Artifact
		for _, asset := range release.Assets {
			artifacts = append(artifacts, Artifact{
				Name:        asset.GetName(),
				URL:         asset.GetURL(),
				ContentType: asset.GetContentType(),
			})
		}
		bundles := FilterScenarioArtifacts(artifacts)
		if len(bundles) == 0 {
			continue
		}
		out = append(out, Release{
			Name:      release.GetName(),
			Tag:       release.GetTagName(),
			Artifacts: bundles,
		})
	}
	return out, nil
}

// FilterScenarioArtifacts narrows a release's assets down to ones that
// look like scenario bundles, by file extension.
func FilterScenarioArtifacts(artifacts []Artifact) []Artifact {
	var out []Artifact
	for _, a := range artifacts {
		for _, ext := range bundleExtensions {
			if strings.HasSuffix(a.Name, ext) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
