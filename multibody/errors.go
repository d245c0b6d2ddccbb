package multibody

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrDimension indicates an input or output vector/matrix whose size does
	// not match what the model requires.
	ErrDimension = errors.New("dimension mismatch")

	// ErrIndexOutOfRange indicates an out-of-range joint or frame index.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrStaleData indicates a consumer algorithm ran before its producer
	// populated the workspace. Only surfaced when checks are enabled on Data.
	ErrStaleData = errors.New("stale data")
)

// NewDimensionError returns an error for a vector or matrix argument whose
// size does not match the model-derived expectation.
func NewDimensionError(what string, got, want int) error {
	return pkgerrors.Wrapf(ErrDimension, "%s has size %d, model expects %d", what, got, want)
}

// NewJointIndexError returns an error for an out-of-range joint index.
func NewJointIndexError(id, njoints int) error {
	return pkgerrors.Wrapf(ErrIndexOutOfRange, "joint index %d, model has %d joints", id, njoints)
}

// NewFrameIndexError returns an error for an out-of-range frame index.
func NewFrameIndexError(id, nframes int) error {
	return pkgerrors.Wrapf(ErrIndexOutOfRange, "frame index %d, model has %d frames", id, nframes)
}

// NewStaleDataError returns an error reporting that a prerequisite
// computation has not run on this Data.
func NewStaleDataError(need string) error {
	return pkgerrors.Wrapf(ErrStaleData, "%s has not been computed on this workspace", need)
}
