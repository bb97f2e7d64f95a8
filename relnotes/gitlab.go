package relnotes

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"
)

const (
	GitLabAPI     = "https://re-git.lanl.gov/api/v4"
	GitLabProject = "503"
)

type GitLab struct {
	*Client
	Project string // numeric project id
}

// NewGitLab sends the token as the private_token query value on every
// request
func NewGitLab(baseURL, project, user, token string) *GitLab {
	if baseURL == "" {
		baseURL = GitLabAPI
	}
	if project == "" {
		project = GitLabProject
	}
	return &GitLab{
		Client: &Client{
			BaseURL: baseURL,
			User:    user,
			Token:   token,
			Query:   url.Values{"private_token": {token}},
		},
		Project: project,
	}
}

type glItem struct {
	IID          int        `json:"iid"`
	Title        string     `json:"title"`
	WebURL       string     `json:"web_url"`
	TargetBranch string     `json:"target_branch"`
	MergedAt     *time.Time `json:"merged_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	Labels       []string   `json:"labels"`
}

func (gl *GitLab) list(kind, state string) (string, error) {
	return gl.URL(fmt.Sprintf("/projects/%s/%s", url.PathEscape(gl.Project), kind),
		url.Values{"state": {state}})
}

// Report lists the merge requests to develop and issues closed after the
// cutoff, then the bugs still open
func (gl *GitLab) Report(ctx context.Context, cutoff time.Time) (*Report, error) {
	since := cutoffString(cutoff)
	return buildReport(ctx,
		[]string{
			fmt.Sprintf("Showing MRs merged to develop dated after %s:", since),
			fmt.Sprintf("Showing issues closed after %s:", since),
			"Showing open issues (most recently reported):",
		},
		[]sectionFunc{
			func(ctx context.Context) ([]string, error) { return gl.MergedRequests(ctx, cutoff) },
			func(ctx context.Context) ([]string, error) { return gl.ClosedIssues(ctx, cutoff) },
			gl.OpenBugs,
		})
}

func (gl *GitLab) MergedRequests(ctx context.Context, cutoff time.Time) (entries []string, err error) {
	var u string
	if u, err = gl.list("merge_requests", "merged"); err != nil {
		return
	}
	err = Paginate(ctx, gl.Client, u, func(page []glItem) (bool, error) {
		for _, it := range page {
			if it.MergedAt == nil || it.TargetBranch != "develop" {
				continue
			}
			if !after(it.MergedAt, cutoff) {
				return true, nil
			}
			entries = append(entries, fmt.Sprintf("* [MR !%d %s](%s)", it.IID, it.Title, it.WebURL))
		}
		return false, nil
	})
	return
}

func (gl *GitLab) ClosedIssues(ctx context.Context, cutoff time.Time) (entries []string, err error) {
	var u string
	if u, err = gl.list("issues", "closed"); err != nil {
		return
	}
	err = Paginate(ctx, gl.Client, u, func(page []glItem) (bool, error) {
		for _, it := range page {
			if it.ClosedAt == nil {
				continue
			}
			if !after(it.ClosedAt, cutoff) {
				return true, nil
			}
			kind := "issue"
			if slices.Contains(it.Labels, "bug") {
				kind = "bug"
			}
			entries = append(entries, fmt.Sprintf("* [Gitlab %s #%d %s](%s)", kind, it.IID, it.Title, it.WebURL))
		}
		return false, nil
	})
	return
}

func (gl *GitLab) OpenBugs(ctx context.Context) (entries []string, err error) {
	var u string
	if u, err = gl.list("issues", "opened"); err != nil {
		return
	}
	err = Paginate(ctx, gl.Client, u, func(page []glItem) (bool, error) {
		for _, it := range page {
			if slices.Contains(it.Labels, "bug") {
				entries = append(entries, fmt.Sprintf("* [Gitlab bug #%d %s](%s)", it.IID, it.Title, it.WebURL))
			}
		}
		return false, nil
	})
	return
}
