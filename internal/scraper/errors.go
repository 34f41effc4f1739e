package scraper

import "fmt"

// ExtractionError reports expected markup that was absent from a page.
type ExtractionError struct {
	ID    string
	Page  PageKind
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extracting %s from %s page", e.Field, e.Page)
	if e.ID != "" {
		msg = fmt.Sprintf("competition %s: %s", e.ID, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }
