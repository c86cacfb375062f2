package handlers

import "time"

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL        string `doc:"The URL to shorten; must start with http:// or https://" example:"https://example.com/very/long/path" json:"url"`
		CustomCode string `doc:"Optional shortcode, 4-20 of [a-zA-Z0-9_-]"                example:"mycode"                             json:"customCode,omitempty"`
		Validity   int64  `doc:"Minutes the link stays valid; 30 when omitted or not positive" example:"30"                          json:"validity,omitempty"`
	}
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code        string    `doc:"The short code"            example:"abc123"                             json:"code"`
		ShortURL    string    `doc:"The full short URL"        example:"http://localhost:8888/abc123"       json:"shortUrl"`
		OriginalURL string    `doc:"The destination URL"       example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the link stops working"                                            json:"expiresAt"`
	}
}

// LinkRequest addresses a single short code.
type LinkRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// LinkStateResponse describes what visiting a short code shows.
type LinkStateResponse struct {
	Body LinkState
}

// LinkState is the resolution of a code that is still valid.
type LinkState struct {
	Code        string    `doc:"The short code"                     json:"code"`
	State       string    `doc:"Display state"                      enum:"redirecting,not_found,expired" json:"state"`
	Destination string    `doc:"Where the browser is sent"          json:"destination,omitempty"`
	ExpiresAt   time.Time `doc:"When the link stops working"        json:"expiresAt,omitempty"`
	DelayMs     int64     `doc:"Pause before navigation, in ms"     json:"delayMs,omitempty"`
}

// NavigateEvent is sent on the follow stream when the redirect delay has passed.
type NavigateEvent struct {
	Destination string `json:"destination"`
}

// LinkItem is one row of the listing.
type LinkItem struct {
	Code             string    `json:"code"`
	ShortURL         string    `json:"shortUrl"`
	OriginalURL      string    `json:"originalUrl"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RemainingMinutes int64     `doc:"Whole minutes left, 0 once expired" json:"remainingMinutes"`
}

// ListLinksResponse lists every link in the registry.
type ListLinksResponse struct {
	Body struct {
		Empty   bool       `doc:"True when there are no links"  json:"empty"`
		Message string     `doc:"Empty-state message"           json:"message,omitempty"`
		Entries []LinkItem `json:"entries"`
	}
}
