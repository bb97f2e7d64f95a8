package relnotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// Client fetches JSON pages from one REST API. Basic auth is sent when User
// is set. Query values are added to every request that does not already
// carry them, so tokens survive on next page links.
type Client struct {
	BaseURL string
	User    string
	Token   string
	Query   url.Values
	HTTP    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return &http.Client{Timeout: 30 * time.Second}
	}
	return c.HTTP
}

// URL joins path and query onto the base URL
func (c *Client) URL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vals := range query {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (body []byte, next string, err error) {
	var (
		u   *url.URL
		req *http.Request
	)
	if u, err = url.Parse(rawURL); err != nil {
		return
	}
	q := u.Query()
	for k, vals := range c.Query {
		if !q.Has(k) {
			q[k] = vals
		}
	}
	u.RawQuery = q.Encode()
	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil); err != nil {
		return
	}
	req.Header.Set("Accept", "application/json")
	if c.User != "" {
		req.SetBasicAuth(c.User, c.Token)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if body, err = io.ReadAll(resp.Body); err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, "", fmt.Errorf("GET %s: %s: %s", withoutQuery(u), resp.Status, snippet)
	}
	return body, NextLink(resp.Header.Get("Link")), nil
}

// withoutQuery keeps tokens passed as query values out of error messages
func withoutQuery(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}

var nextLinkRE = regexp.MustCompile(`<([^>]*)>\s*;\s*rel="?next"?`)

// NextLink returns the rel="next" target of a Link header, or ""
func NextLink(header string) string {
	if m := nextLinkRE.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}

// Paginate decodes each page at rawURL as a JSON array of T and hands it to
// fn, following next links until there are none or fn reports done
func Paginate[T any](ctx context.Context, c *Client, rawURL string, fn func(page []T) (done bool, err error)) error {
	for rawURL != "" {
		body, next, err := c.get(ctx, rawURL)
		if err != nil {
			return err
		}
		var page []T
		if err = json.Unmarshal(body, &page); err != nil {
			u, _ := url.Parse(rawURL)
			return fmt.Errorf("decoding %s: %w", withoutQuery(u), err)
		}
		done, err := fn(page)
		if err != nil || done {
			return err
		}
		rawURL = next
	}
	return nil
}
