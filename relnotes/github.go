package relnotes

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const GitHubAPI = "https://api.github.com"

type GitHub struct {
	*Client
	Repo string // owner/name
}

// NewGitHub authenticates with a user name and personal access token
func NewGitHub(baseURL, repo, user, token string) *GitHub {
	if baseURL == "" {
		baseURL = GitHubAPI
	}
	return &GitHub{
		Client: &Client{BaseURL: baseURL, User: user, Token: token},
		Repo:   repo,
	}
}

type ghLabel struct {
	Name string `json:"name"`
}

type ghItem struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	HTMLURL     string     `json:"html_url"`
	MergedAt    *time.Time `json:"merged_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	Labels      []ghLabel  `json:"labels"`
	PullRequest *struct{}  `json:"pull_request"`
}

func (it *ghItem) isPull() bool { return it.PullRequest != nil }

func (it *ghItem) hasLabel(name string) bool {
	for _, l := range it.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

func (gh *GitHub) list(kind, state string) (string, error) {
	return gh.URL(fmt.Sprintf("/repos/%s/%s", gh.Repo, kind), url.Values{"state": {state}})
}

// Report lists the pull requests merged and issues closed after the cutoff,
// then the bugs still open
func (gh *GitHub) Report(ctx context.Context, cutoff time.Time) (*Report, error) {
	since := cutoffString(cutoff)
	return buildReport(ctx,
		[]string{
			fmt.Sprintf("Showing merged pull requests dated after %s:", since),
			fmt.Sprintf("Showing issues closed after %s:", since),
			"Showing open issues (most recently reported):",
		},
		[]sectionFunc{
			func(ctx context.Context) ([]string, error) { return gh.MergedPulls(ctx, cutoff) },
			func(ctx context.Context) ([]string, error) { return gh.ClosedIssues(ctx, cutoff) },
			gh.OpenBugs,
		})
}

func (gh *GitHub) MergedPulls(ctx context.Context, cutoff time.Time) (entries []string, err error) {
	var u string
	if u, err = gh.list("pulls", "closed"); err != nil {
		return
	}
	err = Paginate(ctx, gh.Client, u, func(page []ghItem) (bool, error) {
		for _, it := range page {
			if it.MergedAt == nil {
				continue
			}
			if !after(it.MergedAt, cutoff) {
				return true, nil
			}
			entries = append(entries, fmt.Sprintf("* \"PR #%d %s\":%s", it.Number, it.Title, it.HTMLURL))
		}
		return false, nil
	})
	return
}

// ClosedIssues skips pull requests, which the issues endpoint also returns
func (gh *GitHub) ClosedIssues(ctx context.Context, cutoff time.Time) (entries []string, err error) {
	var u string
	if u, err = gh.list("issues", "closed"); err != nil {
		return
	}
	err = Paginate(ctx, gh.Client, u, func(page []ghItem) (bool, error) {
		for _, it := range page {
			if it.isPull() || it.ClosedAt == nil {
				continue
			}
			if !after(it.ClosedAt, cutoff) {
				return true, nil
			}
			entries = append(entries, fmt.Sprintf("* \"Github issue #%d %s\":%s", it.Number, it.Title, it.HTMLURL))
		}
		return false, nil
	})
	return
}

func (gh *GitHub) OpenBugs(ctx context.Context) (entries []string, err error) {
	var u string
	if u, err = gh.list("issues", "open"); err != nil {
		return
	}
	err = Paginate(ctx, gh.Client, u, func(page []ghItem) (bool, error) {
		for _, it := range page {
			if !it.isPull() && it.hasLabel("bug") {
				entries = append(entries, fmt.Sprintf("* \"Github issue #%d %s\":%s", it.Number, it.Title, it.HTMLURL))
			}
		}
		return false, nil
	})
	return
}
