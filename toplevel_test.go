package archive

import (
	"os"
	"path/filepath"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevelCandidates(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		want    []string
	}{
		{
			name:    "empty",
			members: nil,
			want:    nil,
		},
		{
			name:    "single root",
			members: []string{"foo/", "foo/a.txt", "foo/sub/b.txt"},
			want:    []string{"foo"},
		},
		{
			name:    "multiple roots",
			members: []string{"a.txt", "b.txt", "sub/c.txt"},
			want:    []string{"a.txt", "b.txt", "sub"},
		},
		{
			name:    "duplicates collapse",
			members: []string{"foo/a.txt", "foo/b.txt", "foo"},
			want:    []string{"foo"},
		},
		{
			name:    "leading slash contributes no root",
			members: []string{"/abs.txt", "foo/a.txt"},
			want:    []string{"foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topLevelCandidates(tt.members))
		})
	}
}

func TestArchiveBaseName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "foo.tar.gz", want: "foo"},
		{name: "foo.tgz", want: "foo"},
		{name: "foo.tar.bz2", want: "foo"},
		{name: "foo.bz2", want: "foo"},
		{name: "foo.zip", want: "foo"},
		{name: "foo.weird", want: "foo.weird.dir"},
		{name: "foo", want: "foo.dir"},
		// Longest recognized suffix wins over a shorter one.
		{name: "foo.tar.gz.bz2", want: "foo.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, archiveBaseName(tt.name))
		})
	}
}

func TestResolveTopLevel_Empty(t *testing.T) {
	_, err := resolveTopLevel(nil, "foo.tar.gz", func() error {
		t.Fatal("extract must not run for an empty archive")
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, CodeEmptyArchive, platformerrors.GetCode(err))
}

func TestResolveTopLevel_UnresolvablePath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// A vanished working directory makes the absolute-path resolution of the
	// extracted root fail; that failure must still carry the uniform code.
	gone := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(gone, 0o755))
	require.NoError(t, os.Chdir(gone))
	require.NoError(t, os.Remove(gone))

	_, err = resolveTopLevel([]string{"foo/a.txt"}, "foo.tar.gz", func() error {
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, CodeExtractFailed, platformerrors.GetCode(err))
}

func TestResolveTopLevel_WrapperAlreadyExists(t *testing.T) {
	tempDir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "loose"), 0o755))

	_, err = resolveTopLevel([]string{"a.txt", "b.txt"}, "loose.zip", func() error {
		t.Fatal("extract must not run when the wrapper cannot be created")
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, CodeExtractFailed, platformerrors.GetCode(err))
}
