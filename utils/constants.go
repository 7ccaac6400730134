package utils

import (
	"time"
)

type contextKey string

// Request scoped context keys
const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)

// Request timeouts
const (
	// DefaultRequestTimeout bounds ordinary API handlers
	DefaultRequestTimeout = 30 * time.Second

	// UploadRequestTimeout bounds file upload parsing
	UploadRequestTimeout = 60 * time.Second
)

// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
const CORSMaxAge = 86400

// AIHealthCacheKey is the redis key, without prefix, holding the last AI health probe
const AIHealthCacheKey = "ai:health"

// MaxUploadSize caps uploaded material files (10MB)
const MaxUploadSize = 10 * 1024 * 1024
