package relnotes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLink(t *testing.T) {
	for header, want := range map[string]string{
		``: ``,
		`<https://x/a?page=2>; rel="next", <https://x/a?page=9>; rel="last"`: `https://x/a?page=2`,
		`<https://x/a?page=1>; rel="prev", <https://x/a?page=3>; rel="next"`: `https://x/a?page=3`,
		`<https://x/a?page=1>; rel="first"`:                                   ``,
	} {
		assert.Equal(t, want, NextLink(header), header)
	}
}

func TestParseCutoff(t *testing.T) {
	c, err := ParseCutoff("20200101")
	require.NoError(t, err)
	assert.Equal(t, "January 01 2020", cutoffString(c))
	_, err = ParseCutoff("2020-01-01")
	assert.Error(t, err)
}

func gitHubServer(t *testing.T, unreached *atomic.Int32) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "me" || pass != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
			return
		}
		var (
			q    = r.URL.Query()
			link = func(page string) {
				w.Header().Set("Link", fmt.Sprintf(`<%s%s?state=%s&page=%s>; rel="next"`,
					srv.URL, r.URL.Path, q.Get("state"), page))
			}
		)
		switch r.URL.Path + " " + q.Get("state") + " " + q.Get("page") {
		case "/repos/lanl/Draco/pulls closed ":
			link("2")
			fmt.Fprint(w, `[
				{"number": 3, "title": "c", "html_url": "u3", "merged_at": "2020-03-01T10:00:00Z"},
				{"number": 2, "title": "b", "html_url": "u2", "merged_at": null}]`)
		case "/repos/lanl/Draco/pulls closed 2":
			link("3")
			fmt.Fprint(w, `[
				{"number": 1, "title": "a", "html_url": "u1", "merged_at": "2020-01-02T00:00:00Z"},
				{"number": 0, "title": "z", "html_url": "u0", "merged_at": "2020-01-01T23:59:59Z"}]`)
		case "/repos/lanl/Draco/issues closed ":
			fmt.Fprint(w, `[
				{"number": 6, "title": "pr", "html_url": "u6", "closed_at": "2020-02-01T00:00:00Z", "pull_request": {}},
				{"number": 5, "title": "e", "html_url": "u5", "closed_at": "2020-02-01T00:00:00Z"},
				{"number": 4, "title": "d", "html_url": "u4", "closed_at": "2019-06-01T00:00:00Z"}]`)
		case "/repos/lanl/Draco/issues open ":
			link("2")
			fmt.Fprint(w, `[
				{"number": 9, "title": "pr bug", "html_url": "u9", "labels": [{"name": "bug"}], "pull_request": {}},
				{"number": 8, "title": "feature", "html_url": "u8", "labels": [{"name": "enhancement"}]}]`)
		case "/repos/lanl/Draco/issues open 2":
			fmt.Fprint(w, `[{"number": 7, "title": "crash", "html_url": "u7", "labels": [{"name": "bug"}]}]`)
		default:
			unreached.Add(1)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHub(t *testing.T) {
	var unreached atomic.Int32
	srv := gitHubServer(t, &unreached)
	cutoff, err := ParseCutoff("20200101")
	require.NoError(t, err)

	gh := NewGitHub(srv.URL, "lanl/Draco", "me", "tok")
	r, err := gh.Report(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, unreached.Load())
	require.Len(t, r.Sections, 3)
	assert.Equal(t, []string{`* "PR #3 c":u3`, `* "PR #1 a":u1`}, r.Sections[0].Entries)
	assert.Equal(t, []string{`* "Github issue #5 e":u5`}, r.Sections[1].Entries)
	assert.Equal(t, []string{`* "Github issue #7 crash":u7`}, r.Sections[2].Entries)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(),
		"\nShowing merged pull requests dated after January 01 2020:\n\n* \"PR #3 c\":u3\n"))

	_, err = NewGitHub(srv.URL, "lanl/Draco", "me", "wrong").Report(context.Background(), cutoff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGitLab(t *testing.T) {
	var (
		srv     *httptest.Server
		noToken atomic.Int32
	)
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("private_token") != "tok" {
			noToken.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path + " " + q.Get("state") + " " + q.Get("page") {
		case "/projects/503/merge_requests merged ":
			// Next link without the token
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?state=merged&page=2>; rel="next"`, srv.URL, r.URL.Path))
			fmt.Fprint(w, `[
				{"iid": 12, "title": "m", "web_url": "w12", "target_branch": "develop", "merged_at": "2020-05-01T00:00:00.000Z"},
				{"iid": 11, "title": "rel", "web_url": "w11", "target_branch": "release", "merged_at": "2020-04-01T00:00:00.000Z"}]`)
		case "/projects/503/merge_requests merged 2":
			fmt.Fprint(w, `[
				{"iid": 10, "title": "old", "web_url": "w10", "target_branch": "develop", "merged_at": "2019-04-01T00:00:00.000Z"},
				{"iid": 9, "title": "older", "web_url": "w9", "target_branch": "develop", "merged_at": "2020-04-01T00:00:00.000Z"}]`)
		case "/projects/503/issues closed ":
			fmt.Fprint(w, `[
				{"iid": 3, "title": "b", "web_url": "w3", "closed_at": "2020-02-01T00:00:00Z", "labels": ["bug"]},
				{"iid": 2, "title": "i", "web_url": "w2", "closed_at": "2020-02-01T00:00:00Z", "labels": []},
				{"iid": 1, "title": "x", "web_url": "w1", "closed_at": null}]`)
		case "/projects/503/issues opened ":
			fmt.Fprint(w, `[
				{"iid": 5, "title": "open bug", "web_url": "w5", "labels": ["bug", "p1"]},
				{"iid": 4, "title": "todo", "web_url": "w4", "labels": ["feature"]}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	cutoff, err := ParseCutoff("20200101")
	require.NoError(t, err)

	r, err := NewGitLab(srv.URL, "", "me", "tok").Report(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, noToken.Load())
	assert.Equal(t, "Showing MRs merged to develop dated after January 01 2020:", r.Sections[0].Title)
	assert.Equal(t, []string{"* [MR !12 m](w12)"}, r.Sections[0].Entries)
	assert.Equal(t, []string{"* [Gitlab bug #3 b](w3)", "* [Gitlab issue #2 i](w2)"}, r.Sections[1].Entries)
	assert.Equal(t, []string{"* [Gitlab bug #5 open bug](w5)"}, r.Sections[2].Entries)

	gl := NewGitLab(srv.URL, "", "me", "bad")
	_, err = gl.OpenBugs(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "bad")
}

func TestPaginateDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "a list"}`)
	}))
	defer srv.Close()
	c := &Client{BaseURL: srv.URL}
	u, err := c.URL("/x", nil)
	require.NoError(t, err)
	err = Paginate(context.Background(), c, u, func(page []ghItem) (bool, error) { return false, nil })
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Paginate(ctx, c, u, func(page []ghItem) (bool, error) { return false, nil })
	assert.Error(t, err)
}
