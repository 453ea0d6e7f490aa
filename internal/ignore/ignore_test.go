package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/ignore"
)

func isolateHome(t *testing.T) {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadAppliesLayeredRules(t *testing.T) {
	isolateHome(t)
	repositoryRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repositoryRoot, ".git", "info"), 0o755))
	writeFile(t, filepath.Join(repositoryRoot, ".gitignore"), "target/\n# comment\n*.log\n")
	writeFile(t, filepath.Join(repositoryRoot, "pkg", ".gitignore"), "generated.go\n")
	writeFile(t, filepath.Join(repositoryRoot, ".git", "info", "exclude"), "scratch.txt\n")

	matcher, err := ignore.Load(repositoryRoot, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, repositoryRoot, matcher.BasePath())

	testCases := []struct {
		name        string
		segments    []string
		isDirectory bool
		expected    bool
	}{
		{name: "ignored directory", segments: []string{"target"}, isDirectory: true, expected: true},
		{name: "file below ignored directory", segments: []string{"target", "debug", "app"}, expected: true},
		{name: "glob", segments: []string{"src", "server.log"}, expected: true},
		{name: "nested rule scoped", segments: []string{"pkg", "generated.go"}, expected: true},
		{name: "nested rule outside its directory", segments: []string{"generated.go"}, expected: false},
		{name: "info exclude", segments: []string{"scratch.txt"}, expected: true},
		{name: "regular file", segments: []string{"src", "main.go"}, expected: false},
		{name: "empty path", segments: nil, expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, matcher.Excluded(testCase.segments, testCase.isDirectory))
		})
	}
}

func TestLoadFromSubdirectoryUsesRepositoryRules(t *testing.T) {
	isolateHome(t)
	repositoryRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repositoryRoot, ".git"), 0o755))
	writeFile(t, filepath.Join(repositoryRoot, ".gitignore"), "build/\n/top-only.txt\n")
	subdirectory := filepath.Join(repositoryRoot, "services", "api")
	require.NoError(t, os.MkdirAll(subdirectory, 0o755))

	matcher, err := ignore.Load(subdirectory, nil)
	require.NoError(t, err)
	assert.Equal(t, repositoryRoot, matcher.BasePath())
	assert.True(t, matcher.Excluded([]string{"build"}, true))
	assert.False(t, matcher.Excluded([]string{"top-only.txt"}, false))
}

func TestLoadIgnoredRootListsContents(t *testing.T) {
	isolateHome(t)
	repositoryRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repositoryRoot, ".git"), 0o755))
	writeFile(t, filepath.Join(repositoryRoot, ".gitignore"), "target/\n*.log\n")
	ignoredRoot := filepath.Join(repositoryRoot, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(ignoredRoot, "debug"), 0o755))

	matcher, err := ignore.Load(ignoredRoot, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, matcher.Excluded([]string{"debug"}, true))
	assert.False(t, matcher.Excluded([]string{"debug", "app"}, false))
	assert.False(t, matcher.Excluded([]string{"notes.txt"}, false))
	assert.True(t, matcher.Excluded([]string{"debug", "build.log"}, false))

	siblingMatcher, siblingErr := ignore.Load(repositoryRoot, zap.NewNop())
	require.NoError(t, siblingErr)
	assert.True(t, siblingMatcher.Excluded([]string{"target", "notes.txt"}, false))
}

func TestLoadWithoutRepository(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "dist\n")

	matcher, err := ignore.Load(root, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, root, matcher.BasePath())
	assert.True(t, matcher.Excluded([]string{"dist"}, true))
	assert.False(t, matcher.Excluded([]string{"src"}, true))
}

func TestLoadReadsDefaultGlobalIgnore(t *testing.T) {
	isolateHome(t)
	writeFile(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "git", "ignore"), ".DS_Store\n")
	root := t.TempDir()

	matcher, err := ignore.Load(root, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, matcher.Excluded([]string{"docs", ".DS_Store"}, false))
}

func TestNegationReincludes(t *testing.T) {
	matcher := ignore.NewMatcherFromPatterns([]string{"*.log", "# comment", "", "!keep.log"})
	assert.True(t, matcher.Excluded([]string{"debug.log"}, false))
	assert.False(t, matcher.Excluded([]string{"keep.log"}, false))
}

func TestNilMatcherExcludesNothing(t *testing.T) {
	var matcher *ignore.Matcher
	assert.False(t, matcher.Excluded([]string{"anything"}, false))
}

func TestFindRepositoryRoot(t *testing.T) {
	repositoryRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repositoryRoot, ".git"), 0o755))
	nested := filepath.Join(repositoryRoot, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := ignore.FindRepositoryRoot(nested)
	require.True(t, ok)
	assert.Equal(t, repositoryRoot, found)

	worktreeRoot := t.TempDir()
	writeFile(t, filepath.Join(worktreeRoot, ".git"), "gitdir: /elsewhere\n")
	found, ok = ignore.FindRepositoryRoot(worktreeRoot)
	require.True(t, ok)
	assert.Equal(t, worktreeRoot, found)
}
