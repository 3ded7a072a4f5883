package archive

import (
	"errors"
	"io/fs"
	"syscall"

	"archive/tar"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	platformerrors "github.com/jmgilman/go/errors"
)

// Archive-domain error codes. They extend the platform error code set with
// conditions specific to archive handling. Callers check them with
// errors.GetCode or errors.As from the platform errors library; codec-specific
// error types never escape this package.
const (
	// CodeUnknownFormat indicates no registered codec accepts the input file.
	CodeUnknownFormat platformerrors.ErrorCode = "UNKNOWN_ARCHIVE_FORMAT"

	// CodeInvalidFormat indicates a pack request named an unregistered format tag.
	CodeInvalidFormat platformerrors.ErrorCode = "INVALID_ARCHIVE_FORMAT"

	// CodeEmptyArchive indicates the archive lists zero members.
	CodeEmptyArchive platformerrors.ErrorCode = "EMPTY_ARCHIVE"

	// CodeSingleFile indicates the archive's sole top-level entry is a plain
	// file rather than a directory. Extraction has already completed by the
	// time this is reported; only the returned-path contract is violated.
	CodeSingleFile platformerrors.ErrorCode = "SINGLE_FILE_ARCHIVE"

	// CodeExtractFailed indicates a codec or filesystem failure during
	// extraction. The underlying cause is preserved in the error chain.
	CodeExtractFailed platformerrors.ErrorCode = "EXTRACT_FAILED"

	// CodePackFailed indicates a codec or filesystem failure during packing.
	// The underlying cause is preserved in the error chain.
	CodePackFailed platformerrors.ErrorCode = "PACK_FAILED"
)

// classifyCodecError maps recognized codec and OS errors to a platform error
// with the given code, preserving the original error chain for
// errors.Is/errors.As compatibility. Unrecognized errors are passed through
// unchanged so they are not silently swallowed.
//
// The code parameter selects the operation kind (CodeExtractFailed or
// CodePackFailed) since the same underlying conditions can surface on either
// path.
func classifyCodecError(err error, code platformerrors.ErrorCode) error {
	if err == nil {
		return nil
	}

	// Malformed archive data → uniform codec failure
	switch {
	case errors.Is(err, zip.ErrFormat):
		return platformerrors.Wrap(err, code, "not a valid zip archive")
	case errors.Is(err, tar.ErrHeader):
		return platformerrors.Wrap(err, code, "corrupt tar header")
	case errors.Is(err, gzip.ErrHeader):
		return platformerrors.Wrap(err, code, "corrupt gzip stream")
	case errors.Is(err, gzip.ErrChecksum):
		return platformerrors.Wrap(err, code, "gzip checksum mismatch")
	case errors.Is(err, tar.ErrWriteTooLong):
		return platformerrors.Wrap(err, code, "tar entry exceeds declared size")
	}

	// Recognized OS conditions → uniform codec failure. These mirror the
	// platform quirks the original implementations hit in the wild:
	// destination collisions and path-length limits during extraction,
	// permission failures on restrictive filesystems.
	switch {
	case errors.Is(err, fs.ErrExist):
		return platformerrors.Wrap(err, code, "destination entry already exists")
	case errors.Is(err, fs.ErrPermission):
		return platformerrors.Wrap(err, code, "permission denied")
	case errors.Is(err, syscall.ENAMETOOLONG):
		return platformerrors.Wrap(err, code, "path exceeds platform length limit")
	}

	// Pass through unknown errors unchanged to preserve original information
	return err
}

// wrapCodecError wraps any non-nil error from inside a codec's extract or
// pack loop with the given code. Known causes get a classified message first;
// everything else gets a generic wrap, since errors raised while an archive
// is half-written must always surface as the uniform codec failure kind.
func wrapCodecError(err error, code platformerrors.ErrorCode, context string) error {
	if err == nil {
		return nil
	}

	// Errors already classified (including domain codes raised by callers
	// inside the loop, such as invalid pack inputs) pass through untouched.
	var pe platformerrors.PlatformError
	if errors.As(err, &pe) {
		return err
	}

	classified := classifyCodecError(err, code)
	if platformerrors.GetCode(classified) == code {
		return classified
	}
	return platformerrors.Wrap(err, code, context)
}
