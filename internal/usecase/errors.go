package usecase

import (
	"errors"
	"fmt"
)

const (
	StageInputs  = "inputs"
	StageParse   = "parse"
	StageDecode  = "decode"
	StageSegment = "segment"
	StageWrite   = "write"
	StageDiscard = "discard"
)

var (
	ErrMissingInput   = errors.New("missing input file")
	ErrDuplicateInput = errors.New("duplicate input file")
)

// StageError tags a per-recording failure with the step that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded in err, or "" when there is none.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
