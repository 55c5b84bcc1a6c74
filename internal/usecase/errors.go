package usecase

import (
	"errors"
	"fmt"
)

// Base categories; the read API maps each to one status code.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Listing lookups. Each wraps ErrNotFound.
var (
	ErrDayNotListed       = fmt.Errorf("%w: day not listed", ErrNotFound)
	ErrChannelNotIndexed  = fmt.Errorf("%w: channel not indexed", ErrNotFound)
	ErrEnrichmentNotFound = fmt.Errorf("%w: enrichment not stored", ErrNotFound)
)

// Collaborator outages. Each wraps ErrDependencyUnavailable.
var (
	ErrSourceUnavailable   = fmt.Errorf("%w: match source", ErrDependencyUnavailable)
	ErrStoreUnavailable    = fmt.Errorf("%w: enrichment store", ErrDependencyUnavailable)
	ErrProviderUnavailable = fmt.Errorf("%w: provider", ErrDependencyUnavailable)
)
