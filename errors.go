package moexdata

import (
	"errors"
	"fmt"

	"github.com/qg0/moexdata/date"
)

// This file defines the error taxonomy of the local cache. Every failure
// aborts the requested operation with one of these errors; nothing is
// swallowed into a best-effort result, and nothing is retried here.

var (
	// ErrNotFound reports a read of a key that has no backing file yet.
	// It is recoverable by initializing the provider for that key.
	ErrNotFound = errors.New("no local data")

	// ErrEmptySource reports a download that returned no rows where history
	// is known to exist. Every supported dataset has history back to a fixed
	// start date, so an empty result is a source failure, not an empty dataset.
	ErrEmptySource = errors.New("source returned no rows")
)

// SourceUnavailableError reports that a remote source could not be reached or
// answered with a non-success status. It is propagated unchanged to the
// caller that triggered the download.
type SourceUnavailableError struct {
	URL string
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.URL, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SourceFormatError reports that a remote source answered with a payload that
// does not match its documented shape.
type SourceFormatError struct {
	URL string
	Err error
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("unexpected source format: %s: %v", e.URL, e.Err)
}

func (e *SourceFormatError) Unwrap() error { return e.Err }

// CorruptDataError reports a stored file whose content cannot be decoded with
// the configured column spec. There is no automatic repair: the file stays as
// it is and the error surfaces.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt local data in %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// StorageWriteError reports a failed write of a dataset file. The previous
// content of the file is guaranteed untouched: writes go to a temporary file
// that replaces the old one only once fully written.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("cannot write local data to %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// ShapeMismatchError reports that freshly downloaded data is missing a date
// present in the stored table: history vanished upstream.
type ShapeMismatchError struct {
	Day date.Date
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("downloaded data is missing %s present in the local table", e.Day)
}

// DataDriftError reports that freshly downloaded data disagrees with the
// stored table beyond tolerance on an overlapping date. A blind overwrite
// would corrupt the local record, so the refresh is aborted instead.
type DataDriftError struct {
	Day    date.Date
	Column string
	Have   float64 // stored value
	Got    float64 // downloaded value
}

func (e *DataDriftError) Error() string {
	return fmt.Sprintf("data drift on %s %s: have %v, downloaded %v", e.Day, e.Column, e.Have, e.Got)
}
