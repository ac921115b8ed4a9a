// Package apperr holds the sentinel errors shared by the engines and the
// transport layers. Engines wrap them with context; callers match with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownHerb     = errors.New("unknown herb")
	ErrUnknownModel    = errors.New("unknown interaction model")
	ErrUnknownSymptom  = errors.New("unknown symptom")
	ErrInvalidGrid     = errors.New("invalid dose grid")
	ErrDegenerateGraph = errors.New("degenerate graph")
	ErrInvalidDataset  = errors.New("invalid dataset")
	ErrEmptyDataset    = errors.New("empty dataset")
	ErrInvalidArgument = errors.New("invalid argument")
)
