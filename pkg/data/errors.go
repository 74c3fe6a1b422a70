package data

import "fmt"

// FetchError is returned when a GET does not produce a success-class
// response. StatusCode is 0 when the request failed before a response
// arrived, in which case Err holds the cause.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d for %s: %v", e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the root page could not be parsed or queried.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing page: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingAttributeError means a matched element lacks a required attribute.
type MissingAttributeError struct {
	Attr  string
	Index int // position of the element among the selector matches
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("element %d: missing %q attribute", e.Index, e.Attr)
}

// MissingNameError means a matched element has neither a title nor text.
type MissingNameError struct {
	Index int
}

func (e *MissingNameError) Error() string {
	return fmt.Sprintf("element %d: no title attribute or text to name the file", e.Index)
}

// IoError wraps a local filesystem failure for one destination path.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// UsageError is a command-line usage problem detected before any work.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }
