package playlists

import "errors"

// Common errors
var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrRuleNotFound     = errors.New("playlist rule not found")
)

// IsNotFound checks if an error is either not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistNotFound) || errors.Is(err, ErrRuleNotFound)
}
