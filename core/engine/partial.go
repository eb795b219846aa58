package engine

import (
	"sync"

	"eurobase/core/types"
	"eurobase/internal/errors"
)

// SubFailure records one failed sub-request
type SubFailure struct {
	// Selection is the sub-selection that could not be fetched
	Selection types.Selection

	// Err is the transport error the executor reported
	Err error
}

// PartialError is returned by Fetch when some sub-requests succeeded and
// some failed while AllowPartial is set. It carries the merged result of
// the successes; Result.Unfetched names the missing coordinate ranges.
type PartialError struct {
	// Result holds the successfully merged cells
	Result *types.Result

	// Failures lists the failed sub-requests and their errors
	Failures []SubFailure

	err *errors.Error
}

func newPartialError(result *types.Result, failures []SubFailure, total int) *PartialError {
	return &PartialError{
		Result:   result,
		Failures: failures,
		err: errors.Newf(errors.TypePartialFailure,
			"%d of %d sub-requests failed", len(failures), total),
	}
}

// Error implements the error interface
func (e *PartialError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the typed domain error, so errors.IsType sees
// TypePartialFailure through the wrapper
func (e *PartialError) Unwrap() error {
	return e.err
}

// failureList collects sub-request failures from concurrent completions
type failureList struct {
	mu   sync.Mutex
	list []SubFailure
}

func (f *failureList) add(failure SubFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, failure)
}

func (f *failureList) all() []SubFailure {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list
}
