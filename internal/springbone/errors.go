package springbone

import "errors"

var (
	ErrLengthMismatch  = errors.New("rig array length mismatch")
	ErrNilTransform    = errors.New("nil transform")
	ErrBoneOrder       = errors.New("bone listed before its parent")
	ErrInvalidBone     = errors.New("invalid bone properties")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrForceCapacity   = errors.New("force list is full")
	ErrUnknownLayer    = errors.New("unknown collision layer")
	ErrTooManyLayers   = errors.New("too many collision layers")
)
