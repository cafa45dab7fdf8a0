package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the operation metadata key carrying per-endpoint rate
// limit configuration.
const MetadataKey = "rateLimit"

// LimitConfig is one window/maximum pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig overrides the default limit for a single endpoint.
// Attached to huma operations via the Metadata field.
type EndpointConfig struct {
	// Limits replaces the default limit for the endpoint.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the endpoint configuration from the current
// operation, if any.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	if cfg, ok := op.Metadata[MetadataKey].(EndpointConfig); ok {
		return &cfg
	}

	return nil
}
