package main

import (
	"fmt"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Mode selects the filtering policy and the cap applied to a run.
type Mode string

const (
	ModeEssentials Mode = "essentials"
	ModeFull       Mode = "full"
)

// essentialsCap is the number of successful uploads after which an essentials run stops.
const essentialsCap = 100

const hiddenMarker = "."

// Directories pruned from every walk, whatever the mode.
var excludedDirs = []string{"node_modules", "__pycache__"}

// Top level directories uploaded in essentials mode. Root level files are always eligible.
var defaultEssentialDirs = []string{
	"src/",
	"components/",
	"server/",
	"shared/",
	"archive/",
	"api/",
	"utils/",
	"system/",
}

// Substrings that disqualify a path in full mode.
var defaultSkipPatterns = []string{
	".git/",
	"node_modules/",
	".env",
	".replit",
	".config/",
	".upm/",
	"replit.nix",
	"__pycache__/",
	".pyc",
	"uv.lock",
}

func parseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeEssentials, ModeFull:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeEssentials, ModeFull)
	}
}

// defaultCap returns the upload cap for the mode; 0 means unlimited.
func (m Mode) defaultCap() int {
	if m == ModeEssentials {
		return essentialsCap
	}
	return 0
}

// Policy decides whether a repository-relative path may be uploaded.
type Policy interface {
	Name() string
	Eligible(repoPath string) bool
}

type essentialsPolicy struct {
	prefixes []string
}

type fullPolicy struct {
	patterns []string
}

// newPolicy builds the policy for mode. Empty include falls back to defaultEssentialDirs; skip
// extends defaultSkipPatterns.
func newPolicy(mode Mode, include, skip []string) Policy {
	if mode == ModeFull {
		patterns := append([]string{}, defaultSkipPatterns...)
		for _, p := range skip {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		return &fullPolicy{patterns: patterns}
	}

	if len(include) == 0 {
		include = defaultEssentialDirs
	}
	prefixes := make([]string, 0, len(include))
	for _, p := range include {
		p = normalizePath(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		prefixes = append(prefixes, p)
	}
	return &essentialsPolicy{prefixes: prefixes}
}

func (p *essentialsPolicy) Name() string { return string(ModeEssentials) }

func (p *essentialsPolicy) Eligible(repoPath string) bool {
	repoPath = normalizePath(repoPath)
	if repoPath == "" || isExcludedPath(repoPath) {
		return false
	}
	if !strings.Contains(repoPath, "/") {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(repoPath, prefix) {
			return true
		}
	}
	return false
}

func (p *fullPolicy) Name() string { return string(ModeFull) }

func (p *fullPolicy) Eligible(repoPath string) bool {
	repoPath = normalizePath(repoPath)
	if repoPath == "" || isExcludedPath(repoPath) {
		return false
	}
	for _, pattern := range p.patterns {
		if strings.Contains(repoPath, pattern) {
			return false
		}
	}
	return true
}

// normalizePath turns a relative path into the canonical repository form: forward slashes, no
// leading "./" or "/". Comparisons against policies are purely textual, so every path goes through
// here first.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		default:
			return p
		}
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, hiddenMarker)
}

func isExcludedDir(name string) bool {
	for _, d := range excludedDirs {
		if name == d {
			return true
		}
	}
	return false
}

// isExcludedPath reports whether any segment of repoPath is hidden or an excluded directory.
func isExcludedPath(repoPath string) bool {
	segments := strings.Split(repoPath, "/")
	for i, seg := range segments {
		if isHidden(seg) {
			return true
		}
		if i < len(segments)-1 && isExcludedDir(seg) {
			return true
		}
	}
	return false
}

// ignoreMatcher applies the root .gitignore of the source tree on top of a policy.
type ignoreMatcher struct {
	gi *gitignore.GitIgnore
}

// loadIgnoreMatcher compiles <root>/.gitignore. A missing file yields a matcher that ignores
// nothing.
func loadIgnoreMatcher(root string) (*ignoreMatcher, error) {
	path := filepath.Join(root, ".gitignore")
	gi, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		if isNotExist(err) {
			return &ignoreMatcher{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &ignoreMatcher{gi: gi}, nil
}

func (m *ignoreMatcher) Ignored(repoPath string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(repoPath)
}
