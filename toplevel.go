package archive

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// archiveSuffixes are the recognized archive-extension suffixes, checked in
// priority order when deriving a wrapper directory name. Longer compound
// suffixes come first so ".tar.gz" wins over ".gz".
var archiveSuffixes = []string{
	".tar.gz",
	".tgz",
	".tar.bz2",
	".bz2",
	".zip",
}

// topLevelCandidates returns the distinct first path segments of the member
// paths, sorted for deterministic behavior. Each member contributes the
// segment before its first "/", or the whole path when it has none.
func topLevelCandidates(members []string) []string {
	seen := make(map[string]struct{})
	for _, m := range members {
		first, _, _ := strings.Cut(m, "/")
		// A leading "/" yields an empty first segment. Member paths are
		// required to be relative, so such entries are dropped rather than
		// counted as a distinct "" root that would force a wrapper.
		if first == "" {
			continue
		}
		seen[first] = struct{}{}
	}

	candidates := make([]string, 0, len(seen))
	for c := range seen {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)
	return candidates
}

// archiveBaseName derives a wrapper directory name for the given archive
// filename by stripping the first matching recognized suffix. Filenames with
// no recognized suffix get ".dir" appended instead, so the wrapper never
// collides with the archive file itself.
func archiveBaseName(filename string) string {
	base := filepath.Base(filename)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base + ".dir"
}

// resolveTopLevel extracts an archive and returns the absolute path of the
// single authoritative top-level directory, synthesizing a wrapper directory
// when the archive does not follow the single-root convention.
//
// It must run with the working directory already set to the extraction
// destination. The extract callback performs the actual extraction into the
// current working directory; archiveName is the archive's own filename, used
// to derive the wrapper name.
//
// Policy:
//   - zero members → EMPTY_ARCHIVE, nothing extracted
//   - multiple roots → extract inside a freshly created wrapper directory
//     named after the archive; the wrapper must not already exist
//   - a single root that is a directory → extract in place, return it
//   - a single root that is a plain file → extract in place, then report
//     SINGLE_FILE_ARCHIVE; the extraction side effect stands, only the
//     returned-path contract is violated
//
// The asymmetry between multi-root repair and single-file reporting is
// deliberate: a wrapper can be interposed before extraction, but a file
// already extracted flat cannot be retroactively wrapped.
func resolveTopLevel(members []string, archiveName string, extract func() error) (string, error) {
	candidates := topLevelCandidates(members)

	switch {
	case len(candidates) == 0:
		return "", platformerrors.Newf(CodeEmptyArchive, "archive is empty: %s", archiveName)

	case len(candidates) > 1:
		wrapper := archiveBaseName(archiveName)
		if err := os.Mkdir(wrapper, 0o755); err != nil {
			return "", classifyCodecError(err, CodeExtractFailed)
		}
		if err := inDir(wrapper, extract); err != nil {
			return "", err
		}
		return filepath.Abs(wrapper)

	default:
		if err := extract(); err != nil {
			return "", err
		}

		top, err := filepath.Abs(candidates[0])
		if err != nil {
			return "", wrapCodecError(err, CodeExtractFailed, "failed to resolve extracted path")
		}

		info, err := os.Stat(top)
		if err != nil {
			return "", classifyCodecError(err, CodeExtractFailed)
		}
		if !info.IsDir() {
			return "", platformerrors.Newf(CodeSingleFile, "archive has a single file: %s", top)
		}
		return top, nil
	}
}
