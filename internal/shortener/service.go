package shortener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// DefaultMaxAttempts bounds how many generated codes are tried before giving up.
const DefaultMaxAttempts = 100

// Request is the input of a shortening.
type Request struct {
	OriginalURL string
	// CustomCode is used verbatim when set; otherwise a code is generated.
	CustomCode string
	// ValidityMinutes falls back to the default when zero or negative.
	ValidityMinutes int64
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.now = clock
	}
}

// WithMaxAttempts bounds rejection sampling of generated codes.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithDefaultValidity sets the validity used when a request carries none.
func WithDefaultValidity(minutes int64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.defaultValidity = minutes
		}
	}
}

// Service validates shortening requests and inserts the resulting records.
type Service struct {
	// mu serializes the uniqueness check with the insert.
	mu              sync.Mutex
	registry        Registry
	generateCode    CodeGenerator
	now             Clock
	maxAttempts     int
	defaultValidity int64
}

// NewService creates a shortening service writing to registry.
func NewService(registry Registry, generator CodeGenerator, opts ...Option) *Service {
	s := &Service{
		registry:        registry,
		generateCode:    generator,
		now:             time.Now,
		maxAttempts:     DefaultMaxAttempts,
		defaultValidity: DefaultValidityMinutes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten validates req, resolves a short code and stores the record.
// Nothing is written when any step fails.
func (s *Service) Shorten(ctx context.Context, req Request) (*ShortURL, error) {
	if !ValidURL(req.OriginalURL) {
		return nil, ErrInvalidURL
	}

	if req.CustomCode != "" && !ValidShortcode(req.CustomCode) {
		return nil, ErrInvalidShortcode
	}

	minutes := normalizeValidity(req.ValidityMinutes, s.defaultValidity)

	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.resolveCode(ctx, req.CustomCode)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	record := Record{
		DestinationURL: req.OriginalURL,
		ExpiresAt:      createdAt.Add(time.Duration(minutes) * time.Minute),
	}

	if err = s.registry.Insert(ctx, code, record); err != nil {
		return nil, fmt.Errorf("insert %q: %w", code, err)
	}

	return &ShortURL{
		Code:      code,
		Record:    record,
		CreatedAt: createdAt,
	}, nil
}

func (s *Service) resolveCode(ctx context.Context, custom string) (Code, error) {
	if custom != "" {
		taken, err := s.exists(ctx, Code(custom))
		if err != nil {
			return "", err
		}

		if taken {
			return "", ErrDuplicateShortcode
		}

		return Code(custom), nil
	}

	for range s.maxAttempts {
		candidate := Code(s.generateCode())

		taken, err := s.exists(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

func (s *Service) exists(ctx context.Context, code Code) (bool, error) {
	_, err := s.registry.Get(ctx, code)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("lookup %q: %w", code, err)
}
