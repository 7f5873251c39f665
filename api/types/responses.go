package types

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// PodcastsResponse for podcast lists
type PodcastsResponse struct {
	BaseResponse
	Podcasts []map[string]any `json:"podcasts"`
	Count    int              `json:"count"` // Number of results in this response
}

// SinglePodcastResponse for getting or importing a single podcast
type SinglePodcastResponse struct {
	BaseResponse
	Podcast map[string]any `json:"podcast"`
}

// PlaylistRulesResponse for playlist rule lists
type PlaylistRulesResponse struct {
	BaseResponse
	Rules []map[string]any `json:"rules"`
	Count int              `json:"count"`
}

// SinglePlaylistRuleResponse for one playlist rule
type SinglePlaylistRuleResponse struct {
	BaseResponse
	Rule map[string]any `json:"rule"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}
