package scrape

import (
	"errors"
	"fmt"
)

// ErrLoadFailed matches every LoadError via errors.Is.
var ErrLoadFailed = errors.New("load failed")

// LoadError reports a remote page that could not be fetched or parsed.
type LoadError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }
