package paginate

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigate means a result page could not be loaded. It ends the run.
	ErrNavigate = errors.New("navigation failed")
	// ErrRender means the rendered page could not be read or parsed. It ends the run.
	ErrRender = errors.New("page content unavailable")
	// ErrScroll is logged and never returned
	ErrScroll = errors.New("scroll script failed")
)

// PageError ties a failure to the page and phase it happened in
type PageError struct {
	Page  int
	Phase Phase
	URL   string
	Err   error
}

// Error implements the error interface
func (e *PageError) Error() string {
	return fmt.Sprintf("page %d (%s): %v", e.Page, e.Phase, e.Err)
}

// Unwrap returns the underlying error
func (e *PageError) Unwrap() error {
	return e.Err
}

func pageError(page int, phase Phase, url string, kind, err error) *PageError {
	return &PageError{
		Page:  page,
		Phase: phase,
		URL:   url,
		Err:   fmt.Errorf("%w: %w", kind, err),
	}
}
