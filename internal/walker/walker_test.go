package walker_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/arbor/internal/ignore"
	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/walker"
)

func createTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for relativePath, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func collect(t *testing.T, treeWalker *walker.Walker, root string) map[string]walker.Entry {
	t.Helper()
	entries := map[string]walker.Entry{}
	require.NoError(t, treeWalker.Walk(root, func(entry walker.Entry) {
		_, duplicate := entries[entry.RelativePath]
		require.False(t, duplicate, "duplicate entry %s", entry.RelativePath)
		entries[entry.RelativePath] = entry
	}))
	return entries
}

func relativePaths(entries map[string]walker.Entry) []string {
	paths := make([]string, 0, len(entries))
	for path := range entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func sampleRepository(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	createTree(t, root, map[string]string{
		".gitignore":        "target/\n",
		".env":              "SECRET=1",
		".git/HEAD":         "ref: refs/heads/main\n",
		".git/objects/info": "",
		"src/main.rs":       "fn main() {}",
		"target/debug/app":  "binary",
		"README.md":         "# readme",
	})
	return root
}

func TestWalkDefaultVisibility(t *testing.T) {
	root := sampleRepository(t)
	matcher := ignore.NewMatcherFromPatterns([]string{"target/"})
	treeWalker := walker.NewWalker(walker.Options{FollowIgnoreRules: true}, matcher, nil)

	entries := collect(t, treeWalker, root)
	assert.Equal(t, []string{"README.md", "src", "src/main.rs"}, relativePaths(entries))
	assert.Equal(t, types.KindDirectory, entries["src"].Kind)
	assert.Equal(t, types.KindFile, entries["src/main.rs"].Kind)
	assert.Equal(t, int64(len("fn main() {}")), entries["src/main.rs"].Size)
	assert.Equal(t, 2, entries["src/main.rs"].Depth)
}

func TestWalkHiddenShowsGitDirectoryWithoutDescending(t *testing.T) {
	root := sampleRepository(t)
	matcher := ignore.NewMatcherFromPatterns([]string{"target/"})
	treeWalker := walker.NewWalker(walker.Options{IncludeHidden: true, FollowIgnoreRules: true}, matcher, nil)

	entries := collect(t, treeWalker, root)
	assert.Contains(t, entries, ".git")
	assert.Contains(t, entries, ".env")
	assert.Contains(t, entries, ".gitignore")
	for path := range entries {
		assert.NotContains(t, path, ".git/", "metadata directory must not be descended")
	}
	assert.NotContains(t, entries, "target")
}

func TestWalkWithoutIgnoreRulesShowsIgnoredEntries(t *testing.T) {
	root := sampleRepository(t)
	matcher := ignore.NewMatcherFromPatterns([]string{"target/"})
	treeWalker := walker.NewWalker(walker.Options{}, matcher, nil)

	entries := collect(t, treeWalker, root)
	assert.Contains(t, entries, "target/debug/app")
	assert.NotContains(t, entries, ".env", "hidden filtering is independent of ignore rules")
}

func TestWalkDepthBound(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, map[string]string{"level1/level2/file.txt": "x"})

	testCases := []struct {
		name     string
		maxDepth int
		expected []string
	}{
		{name: "depth one", maxDepth: 1, expected: []string{"level1"}},
		{name: "depth two", maxDepth: 2, expected: []string{"level1", "level1/level2"}},
		{name: "unbounded", maxDepth: 0, expected: []string{"level1", "level1/level2", "level1/level2/file.txt"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			treeWalker := walker.NewWalker(walker.Options{MaxDepth: testCase.maxDepth}, nil, nil)
			entries := collect(t, treeWalker, root)
			assert.Equal(t, testCase.expected, relativePaths(entries))
			for _, entry := range entries {
				if testCase.maxDepth > 0 {
					assert.LessOrEqual(t, entry.Depth, testCase.maxDepth)
				}
			}
		})
	}
}

func TestWalkExcludePatternsApplyWithoutIgnoreRules(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, map[string]string{
		"web/node_modules/left-pad/index.js": "",
		"web/app.js":                         "",
		"notes.log":                          "",
	})
	treeWalker := walker.NewWalker(walker.Options{ExcludePatterns: []string{"node_modules/", "*.log"}}, nil, nil)

	entries := collect(t, treeWalker, root)
	assert.Equal(t, []string{"web", "web/app.js"}, relativePaths(entries))
}

func TestWalkSymbolicLinks(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, map[string]string{"data/target.txt": "12345"})
	require.NoError(t, os.Symlink(filepath.Join(root, "data", "target.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "data"), filepath.Join(root, "linked-dir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")))

	treeWalker := walker.NewWalker(walker.Options{}, nil, nil)
	entries := collect(t, treeWalker, root)

	assert.NotContains(t, entries, "broken")
	require.Contains(t, entries, "link.txt")
	assert.Equal(t, types.KindFile, entries["link.txt"].Kind)
	assert.Equal(t, int64(5), entries["link.txt"].Size)
	require.Contains(t, entries, "linked-dir")
	assert.Equal(t, types.KindDirectory, entries["linked-dir"].Kind)
	assert.NotContains(t, entries, "linked-dir/target.txt")
}

func TestWalkSymlinkedRootIsResolved(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, map[string]string{"real/a.txt": "a"})
	linkedRoot := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), linkedRoot))

	entries := collect(t, walker.NewWalker(walker.Options{}, nil, nil), linkedRoot)
	assert.Equal(t, []string{"a.txt"}, relativePaths(entries))
}

func TestWalkEmptyDirectory(t *testing.T) {
	entries := collect(t, walker.NewWalker(walker.Options{}, nil, nil), t.TempDir())
	assert.Empty(t, entries)
}

func TestWalkMissingRootFails(t *testing.T) {
	missingRoot := filepath.Join(t.TempDir(), "does-not-exist")
	err := walker.NewWalker(walker.Options{}, nil, nil).Walk(missingRoot, func(walker.Entry) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
