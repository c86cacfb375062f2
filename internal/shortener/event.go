package shortener

import (
	"context"
	"time"
)

// TopicExpiryObserved carries requests to drop codes found expired during resolution.
const TopicExpiryObserved = "link.expiry_observed"

// ExpiryObservedEvent is published when resolution sees a code past its expiry.
type ExpiryObservedEvent struct {
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ObservedAt time.Time `json:"observedAt"`
}

// RemoveExpiredHandler applies expiry events to the registry owned by the caller.
func RemoveExpiredHandler(registry Registry) func(ctx context.Context, event *ExpiryObservedEvent) error {
	return func(ctx context.Context, event *ExpiryObservedEvent) error {
		return registry.RemoveExpired(ctx, Code(event.Code))
	}
}
