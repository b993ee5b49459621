package service

import (
	"context"
	"errors"

	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/sentinel"
)

// wrapStoreErr translates store sentinels into domain errors. Domain errors
// raised by validate callbacks pass through untouched.
func wrapStoreErr(err error, action string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "entity not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "entity was modified concurrently")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, action+": request cancelled")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, action+": service unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func requireEntityID(isNil bool) error {
	if isNil {
		return dErrors.New(dErrors.CodeBadRequest, "entity id is required")
	}
	return nil
}
