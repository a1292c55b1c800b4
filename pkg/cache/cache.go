// Package cache provides a generic in-process cache with optional expiry.
package cache

import "time"

// Cache defines the basic interface for a generic cache.
type Cache[K comparable, V any] interface {
	// Set adds or updates an item that never expires.
	Set(key K, value V)
	// SetWithTTL adds or updates an item that expires after ttl.
	SetWithTTL(key K, value V, ttl time.Duration)
	// Get retrieves an unexpired item.
	Get(key K) (V, bool)
	// Del removes an item.
	Del(key K)
	// Contains checks if an unexpired item exists.
	Contains(key K) bool
	// Len returns the number of stored items, expired ones included until purged.
	Len() int
	// Clear removes all items.
	Clear()
}
