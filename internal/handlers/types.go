package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		LongURL   string     `doc:"The URL to shorten"                       example:"https://example.com/very/long/path" format:"uri"    json:"longUrl"`
		Alias     string     `doc:"Optional custom alias (4-20 chars)"       example:"my-link"                            json:"alias,omitempty"     required:"false"`
		ExpiresAt *time.Time `doc:"Optional absolute expiry time (RFC 3339)" example:"2026-12-31T23:59:59Z"               json:"expiresAt,omitempty" required:"false"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		ShortURL string `doc:"The full short URL" example:"http://localhost:8888/abc1234" json:"shortUrl"`
	}
}

// RedirectRequest is the request for resolving a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// DeleteRequest is the request for deactivating a short URL.
type DeleteRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// DeleteResponse is the empty response for a successful deactivation.
type DeleteResponse struct {
	Status int
}
