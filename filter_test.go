package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/app.js", "src/app.js"},
		{"./src/app.js", "src/app.js"},
		{`.\src\app.js`, "src/app.js"},
		{`src\components\Button.tsx`, "src/components/Button.tsx"},
		{"././README.md", "README.md"},
		{"/abs/file.txt", "abs/file.txt"},
		{".env", ".env"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.in))
		})
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, p := range []string{"src/app.js", "README.md", "a/b/c/d.txt", "server/.well-known/x", "./x/y", `a\b`} {
		once := normalizePath(p)
		assert.Equal(t, once, normalizePath(once), "normalizing %q twice changed it", p)
	}
}

func TestPolicies_RejectExcludedAndHidden(t *testing.T) {
	rejected := []string{
		"node_modules/react/index.js",
		"src/node_modules/x.js",
		"__pycache__/mod.cpython-311.pyc",
		".git/config",
		".env",
		".replit",
		"src/.cache/blob",
		".config/tool/settings.json",
		"./.github/workflows/ci.yml",
	}

	policies := []Policy{
		newPolicy(ModeEssentials, nil, nil),
		newPolicy(ModeFull, nil, nil),
	}
	for _, p := range policies {
		for _, path := range rejected {
			assert.False(t, p.Eligible(path), "%s policy accepted %q", p.Name(), path)
		}
	}
}

func TestEssentialsPolicy(t *testing.T) {
	p := newPolicy(ModeEssentials, nil, nil)

	accepted := []string{
		"src/index.ts",
		"src/deep/nested/file.ts",
		"components/Button.tsx",
		"server/routes.ts",
		"shared/schema.ts",
		"archive/old.js",
		"api/handler.js",
		"utils/format.js",
		"system/boot.js",
		"package.json",
		"README.md",
		"upload_essentials.py",
	}
	for _, path := range accepted {
		assert.True(t, p.Eligible(path), "expected %q to be eligible", path)
	}

	rejected := []string{
		"docs/guide/intro.md",
		"public/assets/logo.png",
		"attached_assets/a/b.txt",
		"docs/readme.md",
		"srcx/file.js",
		"source/file.js",
	}
	for _, path := range rejected {
		assert.False(t, p.Eligible(path), "expected %q to be rejected", path)
	}
}

func TestEssentialsPolicy_CustomInclude(t *testing.T) {
	p := newPolicy(ModeEssentials, []string{"docs", "./lib/"}, nil)

	assert.True(t, p.Eligible("docs/a/b.md"))
	assert.True(t, p.Eligible("lib/x.go"))
	assert.True(t, p.Eligible("main.go"))
	assert.False(t, p.Eligible("src/index.ts"))
}

func TestFullPolicy(t *testing.T) {
	p := newPolicy(ModeFull, nil, []string{"dist/", " "})

	accepted := []string{
		"docs/guide/intro.md",
		"public/assets/logo.png",
		"src/index.ts",
		"package.json",
	}
	for _, path := range accepted {
		assert.True(t, p.Eligible(path), "expected %q to be eligible", path)
	}

	rejected := []string{
		"server/cache/mod.pyc",
		"uv.lock",
		"replit.nix",
		"config/.env.local",
		"dist/bundle.js",
	}
	for _, path := range rejected {
		assert.False(t, p.Eligible(path), "expected %q to be rejected", path)
	}
}

func TestParseMode(t *testing.T) {
	m, err := parseMode("Essentials")
	require.NoError(t, err)
	assert.Equal(t, ModeEssentials, m)
	assert.Equal(t, 100, m.defaultCap())

	m, err = parseMode(" full ")
	require.NoError(t, err)
	assert.Equal(t, ModeFull, m)
	assert.Equal(t, 0, m.defaultCap())

	_, err = parseMode("everything")
	assert.Error(t, err)
}

func TestIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644))

	m, err := loadIgnoreMatcher(root)
	require.NoError(t, err)

	assert.True(t, m.Ignored("server.log"))
	assert.True(t, m.Ignored("src/debug.log"))
	assert.True(t, m.Ignored("build/out.js"))
	assert.False(t, m.Ignored("src/app.js"))
}

func TestIgnoreMatcher_NoGitignore(t *testing.T) {
	m, err := loadIgnoreMatcher(t.TempDir())
	require.NoError(t, err)
	assert.False(t, m.Ignored("anything.log"))

	var nilMatcher *ignoreMatcher
	assert.False(t, nilMatcher.Ignored("anything.log"))
}
