package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAt(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("rank,Youtuber\n"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindSourceFiles(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		files     []string
		wantNames []string
	}{
		{
			name:      "csv and xlsx sorted oldest first",
			files:     []string{"a.csv", "b.xlsx", "c.CSV"},
			wantNames: []string{"a.csv", "b.xlsx", "c.CSV"},
		},
		{
			name:      "other extensions ignored",
			files:     []string{"notes.txt", "stats.csv", "report.xls"},
			wantNames: []string{"stats.csv"},
		},
		{
			name:      "office lock files skipped",
			files:     []string{"~$stats.xlsx", "stats.xlsx"},
			wantNames: []string{"stats.xlsx"},
		},
		{
			name:      "empty directory",
			files:     nil,
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range tt.files {
				writeFileAt(t, dir, name, base.Add(time.Duration(i)*time.Hour))
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

			found, err := NewDiscovery("").FindSourceFiles(dir)
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestFindSourceFiles_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0755))
	writeFileAt(t, filepath.Join(base, "data"), "stats.csv", time.Now())

	found, err := NewDiscovery(base).FindSourceFiles("data")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "data", "stats.csv"), found[0].Path)
}

func TestResolveSource(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("file path returned unchanged", func(t *testing.T) {
		path := writeFileAt(t, t.TempDir(), "stats.csv", base)
		got, err := NewDiscovery("").ResolveSource(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory resolves to newest source", func(t *testing.T) {
		dir := t.TempDir()
		writeFileAt(t, dir, "old.csv", base)
		newest := writeFileAt(t, dir, "new.xlsx", base.Add(48*time.Hour))
		writeFileAt(t, dir, "middle.csv", base.Add(24*time.Hour))

		got, err := NewDiscovery("").ResolveSource(dir)
		require.NoError(t, err)
		assert.Equal(t, newest, got)
	})

	t.Run("directory without sources", func(t *testing.T) {
		_, err := NewDiscovery("").ResolveSource(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .csv or .xlsx source")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewDiscovery("").ResolveSource(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})
}

func TestGetLatestFile(t *testing.T) {
	tests := []struct {
		name        string
		files       []FileInfo
		expectFound bool
		expectedIdx int
	}{
		{
			name: "multiple files with different times",
			files: []FileInfo{
				{Name: "old.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
				{Name: "latest.csv", ModTime: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)},
				{Name: "middle.csv", ModTime: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
			},
			expectFound: true,
			expectedIdx: 1,
		},
		{
			name:        "empty slice",
			files:       []FileInfo{},
			expectFound: false,
		},
		{
			name: "files with same time",
			files: []FileInfo{
				{Name: "file1.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
				{Name: "file2.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
			},
			expectFound: true,
			expectedIdx: 0, // first one wins
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			latest, found := GetLatestFile(tt.files)

			assert.Equal(t, tt.expectFound, found)
			if tt.expectFound {
				assert.Equal(t, tt.files[tt.expectedIdx].Name, latest.Name)
			}
		})
	}
}
