package shortener

import "time"

// Code represents a short URL code.
type Code string

// Clock returns the current instant. Injected so expiry can be tested at exact boundaries.
type Clock func() time.Time

// Record is the destination of a short code and the instant it stops resolving.
type Record struct {
	DestinationURL string
	ExpiresAt      time.Time
}

// Expired reports whether the record is past its expiry at now.
// A record expiring exactly at now is still valid.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// RemainingMinutes returns the whole minutes left before expiry, never negative.
func (r Record) RemainingMinutes(now time.Time) int64 {
	left := r.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}

	return int64(left / time.Minute)
}

// Entry is one row of a registry snapshot.
type Entry struct {
	Code   Code
	Record Record
}

// ShortURL is the result of a successful shortening.
type ShortURL struct {
	Code      Code
	Record    Record
	CreatedAt time.Time
}

// Link returns the absolute short URL for the given origin.
func (s *ShortURL) Link(origin string) string {
	return Link(origin, s.Code)
}

// Link joins an origin and a code into the public short URL form "{origin}/{code}".
func Link(origin string, code Code) string {
	return origin + "/" + string(code)
}
