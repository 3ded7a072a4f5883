package archive

import (
	"archive/tar"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
)

// compression abstracts the stream codec wrapped around the tar container.
// The two tar-based formats differ only in this layer.
type compression interface {
	reader(r io.Reader) (io.ReadCloser, error)
	writer(w io.Writer) (io.WriteCloser, error)
}

// gzipCompression wraps tar streams in gzip.
type gzipCompression struct{}

func (gzipCompression) reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (gzipCompression) writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// bzip2Compression wraps tar streams in bzip2.
type bzip2Compression struct{}

func (bzip2Compression) reader(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

func (bzip2Compression) writer(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
}

// tarCodec handles tar archives behind a compression layer. One instance per
// registered tar-based format, differing only in comp.
type tarCodec struct {
	comp compression
	fs   core.FS
}

// Valid reports whether the file opens in this codec's read mode: the
// compression header parses and the stream yields a first tar header (or a
// clean end-of-archive for empty tars). This is an open probe, not a deep
// integrity check.
func (c *tarCodec) Valid(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	cr, err := c.comp.reader(f)
	if err != nil {
		return false
	}
	defer cr.Close()

	_, err = tar.NewReader(cr).Next()
	return err == nil || errors.Is(err, io.EOF)
}

// Members returns the path of every entry recorded in the archive.
func (c *tarCodec) Members(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyCodecError(err, CodeExtractFailed)
	}
	defer f.Close()

	cr, err := c.comp.reader(f)
	if err != nil {
		return nil, classifyCodecError(err, CodeExtractFailed)
	}
	defer cr.Close()

	var names []string
	tr := tar.NewReader(cr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, classifyCodecError(err, CodeExtractFailed)
		}
		names = append(names, hdr.Name)
	}
}

// ExtractAll extracts every member into the current working directory,
// repairing member modes first so the extracted tree stays accessible.
func (c *tarCodec) ExtractAll(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return classifyCodecError(err, CodeExtractFailed)
	}
	defer f.Close()

	cr, err := c.comp.reader(f)
	if err != nil {
		return classifyCodecError(err, CodeExtractFailed)
	}
	defer cr.Close()

	tr := tar.NewReader(cr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return classifyCodecError(err, CodeExtractFailed)
		}

		repairMode(hdr)
		if err := extractTarMember(tr, hdr); err != nil {
			return wrapCodecError(err, CodeExtractFailed, "failed to extract "+hdr.Name)
		}
	}
}

// repairMode ensures the extracting user keeps access to what was just
// extracted: directories gain owner read/write/execute, regular files owner
// read/write. Some tarballs ship u-x directories or u-w files that would
// leave the extracted tree partially inaccessible to the very process that
// created it. The mutation happens on the in-memory header so the bits take
// effect as the member is written to disk.
func repairMode(hdr *tar.Header) {
	if hdr.FileInfo().IsDir() {
		hdr.Mode |= 0o700
	} else if hdr.Typeflag == tar.TypeReg {
		hdr.Mode |= 0o600
	}
}

// extractTarMember writes a single tar entry relative to the working
// directory. Unsupported entry types (devices, fifos) are skipped.
func extractTarMember(tr *tar.Reader, hdr *tar.Header) error {
	target := filepath.FromSlash(hdr.Name)
	perm := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, perm); err != nil {
			return err
		}
		// MkdirAll is umask-subject and skips pre-existing directories;
		// chmod so the repaired header mode always lands on disk.
		return os.Chmod(target, perm)

	case tar.TypeReg:
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			_ = out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		return os.Chmod(target, perm)

	case tar.TypeSymlink:
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		return os.Symlink(hdr.Linkname, target)

	case tar.TypeLink:
		// Hardlink targets are archive-relative paths; the linked-to member
		// was written earlier in the stream.
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		return os.Link(filepath.FromSlash(hdr.Linkname), target)

	default:
		return nil
	}
}

// Pack creates a new archive at out containing the given paths, resolved
// relative to the current working directory. Directories are added
// recursively. A missing input fails the call with INVALID_INPUT before any
// entry for it is written.
func (c *tarCodec) Pack(paths []string, out string) (err error) {
	f, createErr := os.Create(out)
	if createErr != nil {
		return wrapCodecError(createErr, CodePackFailed, "failed to create archive file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrapCodecError(cerr, CodePackFailed, "failed to close archive file")
		}
	}()

	cw, compErr := c.comp.writer(f)
	if compErr != nil {
		return wrapCodecError(compErr, CodePackFailed, "failed to initialize compressor")
	}
	tw := tar.NewWriter(cw)

	for _, p := range paths {
		if addErr := c.addTree(tw, filepath.FromSlash(p)); addErr != nil {
			return wrapCodecError(addErr, CodePackFailed, "failed to add "+p)
		}
	}

	if cerr := tw.Close(); cerr != nil {
		return wrapCodecError(cerr, CodePackFailed, "failed to finalize tar stream")
	}
	if cerr := cw.Close(); cerr != nil {
		return wrapCodecError(cerr, CodePackFailed, "failed to finalize compressed stream")
	}
	return nil
}

// addTree adds the entry at the working-directory-relative path p, recursing
// into directories.
func (c *tarCodec) addTree(tw *tar.Writer, p string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	root := filepath.Join(cwd, p)
	if exists, err := c.fs.Exists(root); err != nil {
		return err
	} else if !exists {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%q does not exist", p)
	}

	return c.fs.Walk(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(cwd, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&iofs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := c.fs.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
}
