/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/fulmenhq/lineage/internal/couch"
	"github.com/fulmenhq/lineage/internal/lineage"
	"github.com/fulmenhq/lineage/internal/staging"
	"github.com/fulmenhq/lineage/pkg/exitcode"
	"github.com/fulmenhq/lineage/pkg/safeio"
)

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, context.DeadlineExceeded):
		return exitcode.TimeoutError
	case errors.Is(err, couch.ErrRequest):
		return exitcode.NetworkError
	}

	switch lineage.KindOf(err) {
	case lineage.KindUnknown:
	case lineage.InvalidArguments:
		return exitcode.UsageError
	case lineage.NotFound:
		return exitcode.NotFound
	case lineage.MalformedDocument:
		return exitcode.MalformedData
	default:
		return exitcode.ValidationError
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) ||
		errors.Is(err, staging.ErrInvalidID) ||
		errors.Is(err, safeio.ErrOutsideBase) ||
		errors.Is(err, safeio.ErrTraversal) {
		return exitcode.FileSystemError
	}
	return exitcode.GeneralError
}
