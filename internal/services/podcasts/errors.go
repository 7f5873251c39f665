package podcasts

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrLimitReached  = errors.New("podcast limit reached")
	ErrInvalidSource = errors.New("invalid podcast source")
	ErrNotFound      = errors.New("podcast not found")
)

// InvalidSourceError reports a feed that could not be fetched or parsed.
type InvalidSourceError struct {
	URL string
	Err error
}

func (e InvalidSourceError) Error() string {
	return fmt.Sprintf("podcast source %s is invalid: %v", e.URL, e.Err)
}

func (e InvalidSourceError) Is(target error) bool {
	return target == ErrInvalidSource
}

func (e InvalidSourceError) Unwrap() error {
	return e.Err
}

// LimitReachedError reports that the station already holds the maximum
// permitted number of podcasts.
type LimitReachedError struct {
	Limit int
}

func (e LimitReachedError) Error() string {
	return fmt.Sprintf("station already holds the maximum of %d podcasts", e.Limit)
}

func (e LimitReachedError) Is(target error) bool {
	return target == ErrLimitReached
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
