package dto

// RateLimitWindow summarizes one quota window.
type RateLimitWindow struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
}

// RateLimitStatus reports all three windows for the dashboard.
type RateLimitStatus struct {
	Monthly RateLimitWindow `json:"monthly"`
	Daily   RateLimitWindow `json:"daily"`
	Hourly  RateLimitWindow `json:"hourly"`
}
