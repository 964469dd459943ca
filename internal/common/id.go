package common

import (
	"github.com/google/uuid"
)

// NewWatchlistID generates a unique watchlist entry ID.
// Format: wl_<uuid>
func NewWatchlistID() string {
	return "wl_" + uuid.New().String()
}
