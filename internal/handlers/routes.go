package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mkravets/shortpool/internal/ratelimit"
)

// RegisterRoutes registers the URL shortener routes with per-endpoint rate
// limit configuration.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	// Stricter limits for write operations
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/urls",
		Summary:       "Create short URL",
		Description:   "Creates a shortened URL, optionally with a custom alias and expiry.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
				},
			},
		},
	}, urlHandler.CreateShortURL)

	// Relaxed limits for the high-traffic redirect path
	huma.Register(api, huma.Operation{
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL associated with the short code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusMovedPermanently,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/urls/{code}",
		Summary:       "Deactivate short URL",
		Description:   "Soft-deletes the short URL; the code stops resolving.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusNoContent,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
				},
			},
		},
	}, urlHandler.DeleteShortURL)
}
