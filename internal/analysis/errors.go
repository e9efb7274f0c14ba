package analysis

import (
	"fmt"
	"time"

	"MacroPull/pkg/util"
)

// All analysis errors are fatal: the pipeline aborts on the first one.
// The only sanctioned "missing data" handling is the warm-up row drop in
// Transform; everything else surfaces as one of the types below.

// FrequencyMismatchError reports a joined date axis that is not uniformly
// quarterly.
type FrequencyMismatchError struct {
	Prev time.Time
	Next time.Time
}

func (e *FrequencyMismatchError) Error() string {
	return fmt.Sprintf("frequency mismatch: %s is not one quarter after %s",
		util.FormatDate(e.Next), util.FormatDate(e.Prev))
}

// SampleRangeError reports a joined sample starting later than required.
type SampleRangeError struct {
	Earliest time.Time
	Required time.Time
}

func (e *SampleRangeError) Error() string {
	return fmt.Sprintf("sample range: joined sample starts %s, required at or before %s",
		util.FormatDate(e.Earliest), util.FormatDate(e.Required))
}

// InvalidValueError reports an out-of-domain input to a transform.
type InvalidValueError struct {
	Series string
	Date   time.Time
	Value  float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value: %s at %s has %g (log undefined)",
		e.Series, util.FormatDate(e.Date), e.Value)
}

// DivisionByZeroError reports a share computation with a zero denominator.
type DivisionByZeroError struct {
	Series string
	Date   time.Time
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %s is 0 at %s", e.Series, util.FormatDate(e.Date))
}

// InsufficientDataError reports too few observations for a model.
type InsufficientDataError struct {
	Dependent string
	N         int
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: n=%d (%s)", e.Dependent, e.N, e.Reason)
}
