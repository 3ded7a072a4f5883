package archive

import (
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
)

// Format identifies which codec produced or should consume an archive.
// The format tags are string-based for debuggability and stable CLI output.
type Format string

const (
	// FormatZip identifies zip archives.
	FormatZip Format = "zip"

	// FormatTgz identifies gzip-compressed tar archives.
	FormatTgz Format = "tgz"

	// FormatBz2 identifies bzip2-compressed tar archives.
	FormatBz2 Format = "bz2"
)

// String returns the format tag as a string.
func (f Format) String() string {
	return string(f)
}

// Codec is the uniform capability every archive format implements.
//
// Extraction and packing operate relative to the process's current working
// directory: the facade guarantees the working directory is already the
// intended destination (or pack base) before delegating, via a scoped
// directory change.
type Codec interface {
	// Valid reports whether this codec can read the file. It never returns
	// an error; any I/O or format failure during probing means "not valid
	// for this codec". It is a cheap open probe, not an integrity check.
	Valid(path string) bool

	// Members returns every path recorded in the archive, files and
	// directories alike, as forward-slash relative paths.
	Members(path string) ([]string, error)

	// ExtractAll extracts every member into the current working directory.
	ExtractAll(path string) error

	// Pack creates a new archive at out containing the given paths, each
	// resolved relative to the current working directory. Directories are
	// added recursively.
	Pack(paths []string, out string) error
}

// codecOrder fixes the detection probe sequence. The registry is small and
// closed; detection tries each codec in this order and the first accepting
// probe wins.
var codecOrder = []Format{FormatZip, FormatTgz, FormatBz2}

// codecs maps each format tag to its implementation.
var codecs = map[Format]Codec{
	FormatZip: zipCodec{},
	FormatTgz: &tarCodec{comp: gzipCompression{}, fs: billy.NewLocal()},
	FormatBz2: &tarCodec{comp: bzip2Compression{}, fs: billy.NewLocal()},
}

// Formats returns the registered format tags in detection order.
func Formats() []Format {
	out := make([]Format, len(codecOrder))
	copy(out, codecOrder)
	return out
}

// Detect determines which registered codec can read the file at path by
// probing each codec in fixed order. It returns the matching format tag, or
// an UNKNOWN_ARCHIVE_FORMAT error if no codec accepts the file.
func Detect(path string) (Format, error) {
	format, _, err := detect(path)
	return format, err
}

// detect is the internal probe returning the codec alongside its tag.
func detect(path string) (Format, Codec, error) {
	for _, format := range codecOrder {
		codec := codecs[format]
		if codec.Valid(path) {
			return format, codec, nil
		}
	}
	return "", nil, platformerrors.Newf(CodeUnknownFormat, "unknown compression format: %s", path)
}
