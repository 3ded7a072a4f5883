package archive

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	platformerrors "github.com/jmgilman/go/errors"
)

// zipCodec reads zip archives. Packing is not implemented; callers receive
// NOT_IMPLEMENTED rather than a silent no-op, matching the original system's
// intentional gap.
//
// Unlike the tar codecs, zip extraction does not rewrite member permission
// bits: the zip member table does not surface the same mode metadata, so the
// repair pass applies to tar-based formats only. Documented limitation.
type zipCodec struct{}

// Valid reports whether the file carries a readable zip structure. Opening
// the reader parses the end-of-central-directory signature without reading
// member contents.
func (zipCodec) Valid(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	_ = r.Close()
	return true
}

// Members returns the path of every entry in the central directory.
func (zipCodec) Members(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, classifyCodecError(err, CodeExtractFailed)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ExtractAll extracts every member into the current working directory.
func (zipCodec) ExtractAll(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return classifyCodecError(err, CodeExtractFailed)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractZipMember(f); err != nil {
			return wrapCodecError(err, CodeExtractFailed, "failed to extract "+f.Name)
		}
	}
	return nil
}

// extractZipMember writes a single zip entry relative to the working directory.
func extractZipMember(f *zip.File) error {
	target := filepath.FromSlash(f.Name)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	// Entries written by non-unix tools carry no mode bits at all; fall back
	// to a conventional file mode rather than creating an unreadable file.
	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Pack always fails: zip packing is a known, intentional gap.
func (zipCodec) Pack(_ []string, _ string) error {
	return platformerrors.New(platformerrors.CodeNotImplemented, "pack: zip files not supported yet")
}
