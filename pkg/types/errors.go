package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyResult is returned when well formed input holds no usable polygon.
var ErrEmptyResult = errors.New("no valid polygons found")

// FormatError reports input that could not be read as KML or KMZ at all.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: invalid format", e.Op)
	}
	return fmt.Sprintf("%s: invalid format: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
