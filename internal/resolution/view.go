package resolution

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

// Navigator leaves the view for a destination. Navigate runs with the view
// locked and must not call back into the View.
type Navigator interface {
	Navigate(destination string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(destination string)

func (f NavigatorFunc) Navigate(destination string) {
	f(destination)
}

// View is one open resolution view. It shows a code and, while redirecting,
// keeps a single-shot timer armed for that code only.
type View struct {
	resolver  *Resolver
	navigator Navigator

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	current    Outcome
}

// NewView creates a view that navigates through navigator.
func NewView(resolver *Resolver, navigator Navigator) *View {
	return &View{
		resolver:  resolver,
		navigator: navigator,
	}
}

// Show resolves code and displays it. Any timer armed for a previous code is cancelled
// before the new code is looked up.
func (v *View) Show(ctx context.Context, code shortener.Code) (Outcome, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.disarmLocked()

	outcome, err := v.resolver.Resolve(ctx, code)
	if err != nil {
		return Outcome{}, err
	}

	v.current = outcome

	if outcome.State == StateRedirecting {
		generation := v.generation
		destination := outcome.Destination
		v.timer = time.AfterFunc(outcome.Delay, func() {
			v.fire(generation, destination)
		})
	}

	return outcome, nil
}

// Current returns the outcome last shown.
func (v *View) Current() Outcome {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.current
}

// Pending reports whether a navigation is armed.
func (v *View) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.timer != nil
}

// Close cancels any pending navigation.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.disarmLocked()
}

// disarmLocked stops the timer and bumps the generation so a callback that
// already fired but is waiting for the lock becomes a no-op.
func (v *View) disarmLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	v.generation++
}

// fire navigates while holding the lock, so a Show for another code either
// disarms this callback first or waits until the navigation is done.
func (v *View) fire(generation uint64, destination string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		return
	}

	v.timer = nil
	v.navigator.Navigate(destination)
}
