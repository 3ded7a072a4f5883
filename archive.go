package archive

import (
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

// fsys is the filesystem used for facade-level validation. Extraction and
// packing themselves go through the codecs, which operate relative to the
// scoped working directory.
var fsys core.FS = billy.NewLocal()

// Unpack extracts the archive at path into dest, normalizing the result to a
// single top-level directory. It returns the absolute path of that directory
// and the detected format tag.
//
// The format is inferred by probing each registered codec in fixed order
// (zip, tgz, bz2); UNKNOWN_ARCHIVE_FORMAT is returned when none accepts the
// file. Archives without a single common root are extracted inside a
// synthesized wrapper directory named after the archive. An archive whose
// only top-level entry is a plain file is extracted flat and then reported
// as SINGLE_FILE_ARCHIVE; see resolveTopLevel for the full policy.
//
// The process working directory is changed into dest for the duration of the
// call and restored on every exit path. Calls must not run concurrently with
// anything else that changes the working directory.
func Unpack(path string, dest string) (string, Format, error) {
	info, err := fsys.Stat(absOrSelf(path))
	if err != nil {
		return "", "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "not a file: %s", path)
	}
	if !info.Mode().IsRegular() {
		return "", "", platformerrors.Newf(platformerrors.CodeInvalidInput, "not a regular file: %s", path)
	}

	destInfo, err := fsys.Stat(absOrSelf(dest))
	if err != nil || !destInfo.IsDir() {
		return "", "", platformerrors.Newf(platformerrors.CodeInvalidInput, "not a directory: %s", dest)
	}

	// The archive path must survive the directory change below.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to resolve %s", path)
	}

	format, codec, err := detect(absPath)
	if err != nil {
		return "", "", err
	}

	var top string
	err = inDir(dest, func() error {
		members, err := codec.Members(absPath)
		if err != nil {
			return err
		}

		top, err = resolveTopLevel(members, absPath, func() error {
			return codec.ExtractAll(absPath)
		})
		return err
	})
	if err != nil {
		return "", "", err
	}
	return top, format, nil
}

// Pack creates an archive at out containing the given files, which are
// resolved relative to baseDir, using the codec registered for format. It
// returns the output path as given.
//
// A pre-existing output file is removed first: packing overwrites, never
// appends. Inputs that do not exist under baseDir fail the call with
// INVALID_INPUT; an unregistered format tag fails with
// INVALID_ARCHIVE_FORMAT. Zip packing is not implemented and fails with
// NOT_IMPLEMENTED.
//
// Like Unpack, the call scopes the process working directory (into baseDir)
// and restores it on every exit path.
func Pack(out string, files []string, baseDir string, format Format) (string, error) {
	codec, ok := codecs[format]
	if !ok {
		return "", platformerrors.Newf(CodeInvalidFormat, "invalid format tag: %s", format)
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to resolve %s", baseDir)
	}
	baseInfo, err := fsys.Stat(absBase)
	if err != nil || !baseInfo.IsDir() {
		return "", platformerrors.Newf(platformerrors.CodeInvalidInput, "not a directory: %s", baseDir)
	}

	// The output path is resolved against the caller's working directory,
	// not baseDir, and must survive the directory change below.
	absOut, err := filepath.Abs(out)
	if err != nil {
		return "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to resolve %s", out)
	}

	// Overwrite semantics: a stale archive at the output path is removed
	// before packing, never appended to.
	if exists, err := fsys.Exists(absOut); err != nil {
		return "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to check %s", out)
	} else if exists {
		if err := fsys.Remove(absOut); err != nil {
			return "", platformerrors.Wrapf(err, CodePackFailed, "failed to remove existing %s", out)
		}
	}

	relNames := make([]string, 0, len(files))
	for _, f := range files {
		absFile, err := filepath.Abs(f)
		if err != nil {
			return "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to resolve %s", f)
		}
		rel, err := filepath.Rel(absBase, absFile)
		if err != nil {
			return "", platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "%s is not relative to %s", f, baseDir)
		}
		relNames = append(relNames, rel)
	}

	if err := inDir(absBase, func() error {
		return codec.Pack(relNames, absOut)
	}); err != nil {
		return "", err
	}
	return out, nil
}

// absOrSelf resolves path for fsys, which is rooted at the filesystem root
// and therefore needs absolute paths. Paths that fail to resolve are
// returned as-is so the subsequent operation reports the failure.
func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
