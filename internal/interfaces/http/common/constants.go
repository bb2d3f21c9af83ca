package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds the work a single handler does against storage.
	RequestTimeout = 5 * time.Second
	// DefaultPageLimit applies when a listing omits limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps listing pages.
	MaxPageLimit = 100
)
