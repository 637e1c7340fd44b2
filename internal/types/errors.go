package types

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrStorageUnavailable  = errors.New("object storage unavailable")
	ErrParentNotFound      = errors.New("parent video not found")
	ErrNotFound            = errors.New("not found")
	ErrLineageInconsistent = errors.New("lineage inconsistent")
)
