package archive

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipCodec_Valid(t *testing.T) {
	tempDir := t.TempDir()

	zipPath := filepath.Join(tempDir, "a.zip")
	writeZipFixture(t, zipPath, map[string]string{"a.txt": "alpha"})

	tgzPath := filepath.Join(tempDir, "a.tgz")
	writeTgzFixture(t, tgzPath, []tarEntry{{name: "a.txt", mode: 0o644, body: "alpha"}})

	plain := filepath.Join(tempDir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("not an archive"), 0o644))

	codec := codecs[FormatZip]
	assert.True(t, codec.Valid(zipPath))
	assert.False(t, codec.Valid(tgzPath))
	assert.False(t, codec.Valid(plain))
	assert.False(t, codec.Valid(filepath.Join(tempDir, "missing")))
}

func TestZipCodec_Members(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := filepath.Join(tempDir, "a.zip")
	writeZipFixture(t, zipPath, map[string]string{
		"pkg/a.txt":     "alpha",
		"pkg/sub/b.txt": "beta",
	})

	members, err := codecs[FormatZip].Members(zipPath)
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"pkg/a.txt", "pkg/sub/b.txt"}, members)
}

func TestZipCodec_ExtractAll(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := filepath.Join(tempDir, "a.zip")
	writeZipFixture(t, zipPath, map[string]string{
		"pkg/a.txt":     "alpha",
		"pkg/sub/b.txt": "beta",
	})

	dest := filepath.Join(tempDir, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	require.NoError(t, inDir(dest, func() error {
		return codecs[FormatZip].ExtractAll(zipPath)
	}))

	assert.Equal(t, map[string]string{
		"pkg/a.txt":     "alpha",
		"pkg/sub/b.txt": "beta",
	}, treeContents(t, dest))
}

func TestZipCodec_PackNotImplemented(t *testing.T) {
	err := codecs[FormatZip].Pack([]string{"a.txt"}, "out.zip")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotImplemented, platformerrors.GetCode(err))
}
