package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mkravets/shortpool/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler exposes the shortener service over HTTP.
type URLHandler struct {
	service *shortener.Service
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service *shortener.Service, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

// CreateShortURL creates a new short URL, optionally with a custom alias
// and an absolute expiry.
func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	shortURL, err := h.service.Create(ctx, req.Body.LongURL, req.Body.Alias, req.Body.ExpiresAt)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidAlias):
			return nil, huma.Error400BadRequest("alias must be 4-20 characters: letters, digits, underscore or hyphen")
		case errors.Is(err, shortener.ErrInvalidExpiry):
			return nil, huma.Error400BadRequest("expiresAt must be in the future")
		case errors.Is(err, shortener.ErrAliasTaken):
			return nil, huma.Error409Conflict("alias already in use")
		case errors.Is(err, shortener.ErrPoolExhausted):
			// Operational condition, not a client error.
			return nil, huma.Error503ServiceUnavailable("no short codes available")
		default:
			h.logger.Error("failed to create short url", zap.Error(err))

			return nil, huma.Error500InternalServerError("internal server error")
		}
	}

	resp := &CreateShortURLResponse{Status: http.StatusCreated}
	resp.Headers.Location = shortURL
	resp.Body.ShortURL = shortURL

	return resp, nil
}

// RedirectToURL resolves a short code and redirects to the original URL.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		h.logger.Error("failed to resolve short url",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("internal server error")
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = longURL

	return resp, nil
}

// DeleteShortURL deactivates a short URL. The code stops resolving but the
// record is kept.
func (h *URLHandler) DeleteShortURL(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	if err := h.service.Deactivate(ctx, req.Code); err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		h.logger.Error("failed to deactivate short url",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("internal server error")
	}

	return &DeleteResponse{Status: http.StatusNoContent}, nil
}
