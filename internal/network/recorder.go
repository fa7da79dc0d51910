package network

import "time"

// Recorder receives per-request telemetry. A nil Recorder is allowed.
type Recorder interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
	CacheHit(endpoint string)
	CacheMiss(endpoint string)
	Deduplicated(endpoint string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, int, time.Duration) {}
func (nopRecorder) CacheHit(string)                           {}
func (nopRecorder) CacheMiss(string)                          {}
func (nopRecorder) Deduplicated(string)                       {}
