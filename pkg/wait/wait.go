// Package wait polls services for readiness, so that integration suites can
// hold off until the platform under test accepts traffic.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/client"
)

// Condition reports whether whatever is being waited for has happened yet
type Condition func(ctx context.Context) bool

type settings struct {
	interval time.Duration
	maxWait  time.Duration
}

func Interval(interval time.Duration) func(*settings) {
	return func(s *settings) {
		s.interval = interval
	}
}

func MaxWait(maxWait time.Duration) func(*settings) {
	return func(s *settings) {
		s.maxWait = maxWait
	}
}

var errNotYet = errors.New("condition not met")

// Until runs the condition once per interval until it is met, giving up when
// more than the maximum wait time has elapsed
func Until(ctx context.Context, condition Condition, options ...func(*settings)) error {
	s := &settings{
		interval: 1 * time.Second,
		maxWait:  20 * time.Second,
	}

	for _, option := range options {
		option(s)
	}

	_, err := backoff.Retry(ctx,
		func() (any, error) {
			if condition(ctx) {
				return nil, nil
			}
			return nil, errNotYet
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.interval)),
		backoff.WithMaxElapsedTime(s.maxWait),
	)

	if err != nil {
		return fmt.Errorf("waited longer than %s: %w", s.maxWait, err)
	}

	return nil
}

// ForOrion waits until the context broker can list its entities
func ForOrion(ctx context.Context, c client.OrionClient, options ...func(*settings)) error {
	canListEntities := func(ctx context.Context) bool {
		_, err := c.ListEntities(ctx)
		return err == nil
	}

	return Until(ctx, canListEntities, withDefaults(options)...)
}

// ForQuantumLeap waits until the time series store can list its entities
func ForQuantumLeap(ctx context.Context, c client.QuantumLeapClient, options ...func(*settings)) error {
	canListEntities := func(ctx context.Context) bool {
		_, err := c.ListEntities(ctx)
		return err == nil
	}

	return Until(ctx, canListEntities, withDefaults(options)...)
}

func withDefaults(options []func(*settings)) []func(*settings) {
	defaults := []func(*settings){
		Interval(500 * time.Millisecond),
		MaxWait(10 * time.Second),
	}
	return append(defaults, options...)
}
