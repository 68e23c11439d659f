package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

const defaultAPIURL = "https://api.github.com/"

// githubStore writes files through PUT /repos/{owner}/{repo}/contents/{path}.
type githubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	// update fetches the current blob SHA before each PUT so existing paths can be overwritten.
	update bool
}

// newGitHubStore creates a store authenticated with cfg.Token. A nil httpClient means
// http.DefaultClient, which has no timeout.
func newGitHubStore(cfg *Config, httpClient *http.Client) (*githubStore, error) {
	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)

	if cfg.APIURL != "" && cfg.APIURL != defaultAPIURL {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = u
	}

	return &githubStore{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
		update: cfg.Update,
	}, nil
}

// Put implements ContentStore.Put. The JSON body carries message, branch and the base64 encoded
// content (go-github encodes the []byte field).
func (s *githubStore) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(input.Message),
		Content: input.Content,
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	if s.update {
		sha, err := s.currentSHA(ctx, input.Path)
		if err != nil {
			return nil, err
		}
		if sha != "" {
			opts.SHA = github.String(sha)
		}
	}

	// CreateFile puts the path into the URL as is, unlike GetContents.
	result, resp, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, escapeContentPath(input.Path), opts)
	if err != nil {
		return nil, statusErrorFrom(resp, err)
	}
	if !isSuccessStatus(resp.StatusCode) {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	out := &PutOutput{StatusCode: resp.StatusCode}
	if result != nil && result.Content != nil {
		out.SHA = result.Content.GetSHA()
	}
	return out, nil
}

// escapeContentPath escapes each segment of a repository path so characters such as '#', '?'
// and '%' reach the server as part of the path.
func escapeContentPath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// currentSHA returns the blob SHA of path on the configured branch, or "" when it does not exist.
func (s *githubStore) currentSHA(ctx context.Context, path string) (string, error) {
	var opts *github.RepositoryContentGetOptions
	if s.branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: s.branch}
	}

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", statusErrorFrom(resp, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory in %s/%s", path, s.owner, s.repo)
	}
	return file.GetSHA(), nil
}

// statusErrorFrom converts a go-github failure into a StatusError when the server answered at
// all; transport errors are returned as they are.
func statusErrorFrom(resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}

	body := ""
	if resp.Body != nil {
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			body = strings.TrimSpace(string(data))
		}
	}
	if body == "" {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			body = errResp.Message
		} else {
			body = err.Error()
		}
	}

	return &StatusError{Code: resp.StatusCode, Body: body}
}
