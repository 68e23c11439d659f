package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	giturls "github.com/whilp/git-urls"
)

const defaultBranch = "main"

// remoteInfo is what can be learnt about the target repository from a local checkout.
type remoteInfo struct {
	Owner  string
	Repo   string
	Branch string
}

var errNoOrigin = errors.New("no origin remote")

// detectRemote opens the git repository containing dir and reads owner/repo from the origin
// remote and the branch from HEAD. Fields it cannot determine are left empty.
func detectRemote(dir string) (remoteInfo, error) {
	var info remoteInfo

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return info, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return info, fmt.Errorf("%w: %v", errNoOrigin, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return info, errNoOrigin
	}

	info.Owner, info.Repo, err = parseRemoteURL(urls[0])
	return info, err
}

// parseRemoteURL extracts owner and repository name from any URL form git accepts
// (https, ssh, scp-like "git@host:owner/repo.git").
func parseRemoteURL(raw string) (owner, repo string, err error) {
	u, err := giturls.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse remote URL %q: %w", raw, err)
	}

	path := strings.Trim(strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git"), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("remote URL %q has no owner/repo path", raw)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
