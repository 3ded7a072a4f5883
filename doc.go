// Package archive provides a uniform interface for packing and unpacking
// compressed archives (zip, tar.gz, tar.bz2) while normalizing inconsistent
// archive layouts into a single predictable top-level directory.
//
// Archives from arbitrary third-party sources do not follow a consistent
// convention: some contain a single top-level directory, some contain loose
// files at the root, some contain a single bare file. Consumers such as
// package installers and build tools need a guaranteed extraction shape
// regardless of how the archive was authored. Unpack provides that shape:
// after a successful call, exactly one directory exists under the
// destination and it contains the full extracted contents.
//
// # Normalization Policy
//
// The top-level resolver inspects the distinct first path segments of the
// archive's members:
//
//   - one common root that is a directory: extraction is direct and that
//     directory is returned
//   - multiple roots: a wrapper directory named after the archive (with its
//     recognized suffix stripped, or ".dir" appended) is created and all
//     members are extracted inside it
//   - zero members: EMPTY_ARCHIVE
//   - one root that is a plain file: the file is extracted flat and
//     SINGLE_FILE_ARCHIVE is reported afterwards
//
// Tar-based extraction additionally repairs member permissions so extracted
// directories stay owner-traversable and files owner-writable, regardless of
// the modes recorded in the source tarball.
//
// # Error Handling
//
// All errors are platform errors from the errors library, carrying
// archive-domain codes (UNKNOWN_ARCHIVE_FORMAT, EMPTY_ARCHIVE,
// SINGLE_FILE_ARCHIVE, EXTRACT_FAILED, PACK_FAILED) alongside the shared
// platform codes (INVALID_INPUT, NOT_IMPLEMENTED). Codec-specific error
// types never escape the package; causes are preserved in the error chain.
//
// # Working Directory
//
// Unpack and Pack scope the process working directory (into the destination
// or pack base respectively) and restore it on every exit path. The working
// directory is global process state: calls must be externally serialized
// against anything else that changes it. Operations are otherwise
// synchronous and run to completion or fail; nothing is retried.
//
// # Usage
//
//	top, format, err := archive.Unpack("grapefruit-0.1a3.tar.gz", ".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("extracted at", top, "as", format)
//
//	out, err := archive.Pack("bundle.tar.gz", files, workDir, archive.FormatTgz)
package archive
