package domain

import "time"

type Position struct {
	Lat                float64   `json:"latitude"`
	Lon                float64   `json:"longitude"`
	HorizontalAccuracy float64   `json:"accuracy"`
	Timestamp          time.Time `json:"timestamp"`
}

// ProviderStatus mirrors the lifecycle reported by the upstream location provider.
type ProviderStatus string

const (
	ProviderDisabled     ProviderStatus = "disabled"
	ProviderStopped      ProviderStatus = "stopped"
	ProviderInitializing ProviderStatus = "initializing"
	ProviderRunning      ProviderStatus = "running"
	ProviderFailed       ProviderStatus = "failed"
)

func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderDisabled, ProviderStopped, ProviderInitializing, ProviderRunning, ProviderFailed:
		return true
	}
	return false
}
