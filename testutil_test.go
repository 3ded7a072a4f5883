package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// tarEntry describes one member of a tar fixture.
type tarEntry struct {
	name string
	mode int64
	body string
	dir  bool
	link string
	hard bool
}

// writeTarFixture writes a tar archive at path through the given compression
// layer. An empty entry list produces a valid archive with zero members.
func writeTarFixture(t *testing.T, path string, comp compression, entries []tarEntry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	cw, err := comp.writer(f)
	require.NoError(t, err)

	tw := tar.NewWriter(cw)
	for _, e := range entries {
		hdr := &tar.Header{
			Name: e.name,
			Mode: e.mode,
		}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
		case e.link != "" && e.hard:
			hdr.Typeflag = tar.TypeLink
			hdr.Linkname = e.link
		case e.link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, cw.Close())
	require.NoError(t, f.Close())
}

// writeTgzFixture writes a gzip-compressed tar archive.
func writeTgzFixture(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	writeTarFixture(t, path, gzipCompression{}, entries)
}

// writeBz2Fixture writes a bzip2-compressed tar archive.
func writeBz2Fixture(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	writeTarFixture(t, path, bzip2Compression{}, entries)
}

// writeZipFixture writes a zip archive. Names ending in "/" become directory
// entries.
func writeZipFixture(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// treeContents walks root and returns the relative path and content of every
// regular file beneath it.
func treeContents(t *testing.T, root string) map[string]string {
	t.Helper()

	contents := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		contents[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return contents
}
