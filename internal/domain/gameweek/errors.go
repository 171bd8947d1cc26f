package gameweek

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange = errors.New("invalid gameweek range")
	ErrDataFetch    = errors.New("history data unavailable")
)

type RangeError struct {
	Start int
	End   int
}

func (e *RangeError) Error() string {
	switch {
	case e.Start > e.End:
		return fmt.Sprintf("%s: gw_start=%d is after gw_end=%d", ErrInvalidRange, e.Start, e.End)
	default:
		return fmt.Sprintf("%s: gw_start=%d gw_end=%d must be within %d..%d", ErrInvalidRange, e.Start, e.End, MinGameweek, MaxGameweek)
	}
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// FetchError records why the history of one entry could not be loaded.
type FetchError struct {
	EntryID int64
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: entry_id=%d: %v", ErrDataFetch, e.EntryID, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrDataFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
