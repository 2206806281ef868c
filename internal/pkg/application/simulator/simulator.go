// Package simulator turns a fleet configuration into running device pools
// that feed randomised readings to a context broker.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/client"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
	"github.com/diwise/ngsi-v2-client/pkg/sim"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const defaultInterval = 10 * time.Second

type Simulator interface {
	Start(ctx context.Context) error
}

type fleetSimulator struct {
	broker    client.OrionClient
	notifyURL string
	pools     []*devicePool
}

type devicePool struct {
	entityType string
	sampler    *sim.DevicePoolSampler
	interval   time.Duration
	samples    int
}

func New(ctx context.Context, cfg Config) (Simulator, error) {
	if cfg.ContextBroker == "" {
		return nil, errors.New("a context broker endpoint is required")
	}

	if len(cfg.Pools) == 0 {
		return nil, errors.New("at least one device pool must be configured")
	}

	broker := client.NewOrionClient(
		cfg.ContextBroker,
		client.Context(client.FiwareContext{Service: cfg.Tenant}),
	)

	app := &fleetSimulator{
		broker:    broker,
		notifyURL: cfg.Notification.Endpoint,
	}

	for _, pc := range cfg.Pools {
		pool, err := newDevicePool(pc, broker)
		if err != nil {
			return nil, fmt.Errorf("bad pool configuration for \"%s\": %w", pc.EntityType, err)
		}

		app.pools = append(app.pools, pool)
	}

	return app, nil
}

// Start registers the notification subscription, if one is configured, and
// runs all device pools until the context ends or every capped pool has sent
// its configured number of batches.
func (s *fleetSimulator) Start(ctx context.Context) error {
	log := logging.GetFromContext(ctx)

	if s.notifyURL != "" {
		err := s.broker.CreateSubscription(ctx, subscriptions.NewQuantumLeapSubscription(s.notifyURL))
		if err != nil {
			return fmt.Errorf("failed to register notification subscription: %w", err)
		}

		log.Info("registered notification subscription", "endpoint", s.notifyURL)
	}

	var wg sync.WaitGroup

	for _, pool := range s.pools {
		wg.Add(1)

		go func() {
			defer wg.Done()
			pool.run(ctx, log)
		}()
	}

	wg.Wait()

	return nil
}

func (p *devicePool) run(ctx context.Context, log *slog.Logger) {
	log.Info("starting device pool", "type", p.entityType, "interval", p.interval.String())

	if p.samples > 0 {
		err := p.sampler.Sample(ctx, p.samples, p.interval)
		if err != nil && ctx.Err() == nil {
			log.Error("device pool stopped", "type", p.entityType, "err", err.Error())
		}

		return
	}

	for ctx.Err() == nil {
		err := p.sampler.Sample(ctx, 1, p.interval)
		if err != nil && ctx.Err() == nil {
			log.Error("failed to send device readings", "type", p.entityType, "err", err.Error())

			select {
			case <-time.After(p.interval):
			case <-ctx.Done():
			}
		}
	}
}

func newDevicePool(cfg DevicePoolConfig, broker client.OrionClient) (*devicePool, error) {
	if cfg.Devices < 1 {
		return nil, errors.New("the number of devices must be positive")
	}

	generator, err := newEntityGenerator(cfg)
	if err != nil {
		return nil, err
	}

	sampler, err := sim.NewDevicePoolSampler(cfg.Devices, generator, broker)
	if err != nil {
		return nil, err
	}

	interval := defaultInterval
	if cfg.Interval > 0 {
		interval = time.Duration(cfg.Interval * float64(time.Second))
	}

	return &devicePool{
		entityType: cfg.EntityType,
		sampler:    sampler,
		interval:   interval,
		samples:    cfg.Samples,
	}, nil
}

func newEntityGenerator(cfg DevicePoolConfig) (sim.EntityGenerator, error) {
	if cfg.EntityType == "" {
		return nil, errors.New("an entity type is required")
	}

	if len(cfg.Attributes) == 0 {
		return nil, errors.New("at least one attribute must be configured")
	}

	fields := make([]entities.Field, 0, len(cfg.Attributes))
	generators := make([]func() types.Attribute, 0, len(cfg.Attributes))

	for _, spec := range cfg.Attributes {
		switch spec.Kind {
		case "number":
			fields = append(fields, entities.Field{Name: spec.Name, Kind: attributes.Number})
			generators = append(generators, func() types.Attribute {
				return sim.NumberCloseTo(spec.Base)
			})
		case "text":
			if len(spec.Choices) == 0 {
				return nil, fmt.Errorf("text attribute \"%s\" needs at least one choice", spec.Name)
			}

			fields = append(fields, entities.Field{Name: spec.Name, Kind: attributes.Text})
			generators = append(generators, func() types.Attribute {
				return sim.TextFromOneOf(spec.Choices)
			})
		default:
			return nil, fmt.Errorf("attribute \"%s\" is declared with unknown kind \"%s\"", spec.Name, spec.Kind)
		}
	}

	schema, err := entities.NewSchema(cfg.EntityType, fields...)
	if err != nil {
		return nil, err
	}

	return func() *entities.EntityImpl {
		decorators := make([]entities.EntityDecoratorFunc, 0, len(generators))
		for k, generate := range generators {
			decorators = append(decorators, entities.A(fields[k].Name, generate()))
		}

		// can not fail, every decorated attribute is declared with a matching kind
		e, _ := entities.New("", schema, decorators...)
		return e
	}, nil
}
