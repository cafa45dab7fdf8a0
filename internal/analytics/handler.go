package analytics

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mkravets/shortpool/internal/messaging"
	"go.uber.org/zap"
)

// NewEventHandler returns the consumer-side handler persisting events to
// the store.
func NewEventHandler(store Store, logger *zap.Logger) messaging.Handler[Event] {
	return func(ctx context.Context, event *Event) error {
		if err := store.SaveEvent(ctx, event); err != nil {
			return err
		}

		logger.Debug("event stored",
			zap.String("type", event.Type),
			zap.String("shortId", event.Data.ShortID),
		)

		return nil
	}
}

// StatsHandler serves per-token aggregates on the consumer service.
type StatsHandler struct {
	store Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// StatsRequest is the request for token statistics.
type StatsRequest struct {
	ShortID string `doc:"The short code" example:"abc1234" path:"shortId"`
}

// StatsResponse is the response carrying redirect aggregates.
type StatsResponse struct {
	Body Stats
}

// GetStats returns the redirect count and cache hit/miss split for a token.
func (h *StatsHandler) GetStats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	stats, err := h.store.Stats(ctx, req.ShortID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load stats")
	}

	return &StatsResponse{Body: *stats}, nil
}

// RegisterRoutes registers the stats route.
func RegisterRoutes(api huma.API, h *StatsHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/stats/{shortId}",
		Summary:     "Short URL statistics",
		Description: "Returns redirect counts and cache hit/miss split for a short code.",
		Tags:        []string{"Stats"},
	}, h.GetStats)
}
