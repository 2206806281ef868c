package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/client"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

// DevicePoolSampler simulates collecting readings from a pool of devices
// and sending them to a context broker. Device numbers are 1 based, and
// device k always gets the entity id ending in suffix k.
type DevicePoolSampler struct {
	poolSize int
	factory  *EntityFactory
	broker   client.OrionClient
}

func NewDevicePoolSampler(poolSize int, generator EntityGenerator, broker client.OrionClient) (*DevicePoolSampler, error) {
	factory, err := WithNumericSuffixes(poolSize, generator)
	if err != nil {
		return nil, err
	}

	return &DevicePoolSampler{
		poolSize: poolSize,
		factory:  factory,
		broker:   broker,
	}, nil
}

// MakeDeviceEntity creates a new entity with fresh readings for the given
// device
func (s *DevicePoolSampler) MakeDeviceEntity(deviceNumber int) (*entities.EntityImpl, error) {
	if deviceNumber < 1 || deviceNumber > s.poolSize {
		return nil, fmt.Errorf("device number %d is outside the pool [1, %d]", deviceNumber, s.poolSize)
	}

	return s.factory.NewEntity(deviceNumber - 1), nil
}

// EntityID returns the entity id readings from the given device are
// reported under
func (s *DevicePoolSampler) EntityID(deviceNumber int) (string, error) {
	e, err := s.MakeDeviceEntity(deviceNumber)
	if err != nil {
		return "", err
	}

	return e.ID(), nil
}

// SendDeviceReadings sends fresh readings from a single device to the
// broker and returns the entity that was sent
func (s *DevicePoolSampler) SendDeviceReadings(ctx context.Context, deviceNumber int) (*entities.EntityImpl, error) {
	data, err := s.MakeDeviceEntity(deviceNumber)
	if err != nil {
		return nil, err
	}

	err = s.broker.UpsertEntity(ctx, data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Sample sends the given number of reading batches to the broker, one batch
// per interval. Each batch contains an entity for every device in the pool.
func (s *DevicePoolSampler) Sample(ctx context.Context, samples int, interval time.Duration) error {
	for k := 0; k < samples; k++ {
		batch := make([]types.Entity, 0, s.poolSize)
		for _, e := range s.factory.NewBatch() {
			batch = append(batch, e)
		}

		err := s.broker.UpsertEntities(ctx, batch)
		if err != nil {
			return err
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
