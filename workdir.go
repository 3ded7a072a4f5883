package archive

import (
	"os"

	platformerrors "github.com/jmgilman/go/errors"
)

// inDir runs fn with the process working directory changed to dir, restoring
// the previous directory on every exit path. The working directory is global
// process state: callers must not run overlapping scoped regions from
// multiple goroutines without external serialization.
func inDir(dir string, fn func() error) (err error) {
	prev, wdErr := os.Getwd()
	if wdErr != nil {
		return platformerrors.Wrap(wdErr, platformerrors.CodeInternal, "failed to read working directory")
	}

	if cdErr := os.Chdir(dir); cdErr != nil {
		return platformerrors.Wrapf(cdErr, platformerrors.CodeInvalidInput, "failed to change into %q", dir)
	}

	defer func() {
		// Restoration is a scoped-resource release, not best-effort: a
		// failure to restore is an error even when fn succeeded.
		if cdErr := os.Chdir(prev); cdErr != nil && err == nil {
			err = platformerrors.Wrapf(cdErr, platformerrors.CodeInternal, "failed to restore working directory %q", prev)
		}
	}()

	return fn()
}
