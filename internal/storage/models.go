package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Generation is one recorded pipeline run, successful or not.
type Generation struct {
	ID             string
	CreatedAt      time.Time
	Request        string
	MatchedExample string
	Strategy       string
	Confidence     float64
	Prompt         string
	RawResponse    string
	Code           string
	Score          int
	Status         string
	ErrorText      string
	DurationMs     int64
}

// Explanation is a cached code explanation keyed by content fingerprint.
type Explanation struct {
	Fingerprint string
	Explanation string
	CreatedAt   time.Time
}
