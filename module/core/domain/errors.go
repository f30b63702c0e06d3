package domain

import "errors"

var (
	ErrProviderUnavailable = errors.New("location provider unavailable")
	ErrProviderTimeout     = errors.New("location provider initialization timed out")
	ErrConfigurationGap    = errors.New("missing configuration entry")
	ErrPersistence         = errors.New("collection persistence failed")
	ErrNoCurrentArea       = errors.New("no current area")
	ErrVisitLimitReached   = errors.New("visit limit reached")
)
