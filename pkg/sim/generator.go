// Package sim generates NGSI entities with randomised attribute values, so
// that device fleets can be simulated against a live context broker.
package sim

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
	"github.com/google/uuid"
)

// NumberCloseTo returns a Number attribute with a random value x such that
// abs(x - base) <= 1
func NumberCloseTo(base float64) types.Attribute {
	return attributes.NewNumberAttribute(base + rand.Float64())
}

// TextFromOneOf returns a Text attribute with a value picked at random from
// the given choices
func TextFromOneOf(choices []string) types.Attribute {
	pick := choices[rand.IntN(len(choices))]
	return attributes.NewTextAttribute(pick)
}

// EntityGenerator creates an NGSI entity with possibly random attribute
// values. Every call must return a new entity, and all returned entities
// must share the same entity type. Generators should leave the id empty,
// since factories own the id field.
type EntityGenerator func() *entities.EntityImpl

// EntityFactory uses an EntityGenerator to make NGSI entities all having
// ids in the format urn:ngsi-ld:T:S, where T is the entity type and S a
// suffix drawn from a fixed list.
type EntityFactory struct {
	generator EntityGenerator
	suffixes  []string
}

func NewEntityFactory(generator EntityGenerator, suffixes ...string) (*EntityFactory, error) {
	if generator == nil {
		return nil, errors.New("an entity generator is required")
	}

	if len(suffixes) == 0 {
		return nil, errors.New("at least one entity id suffix is required")
	}

	return &EntityFactory{generator: generator, suffixes: suffixes}, nil
}

// WithNumericSuffixes creates a factory with the id suffixes "1" to howMany
func WithNumericSuffixes(howMany int, generator EntityGenerator) (*EntityFactory, error) {
	if howMany < 1 {
		return nil, errors.New("the number of suffixes must be positive")
	}

	suffixes := make([]string, 0, howMany)
	for k := 1; k <= howMany; k++ {
		suffixes = append(suffixes, strconv.Itoa(k))
	}

	return NewEntityFactory(generator, suffixes...)
}

// WithUUIDSuffixes creates a factory with howMany random uuid id suffixes
func WithUUIDSuffixes(howMany int, generator EntityGenerator) (*EntityFactory, error) {
	if howMany < 1 {
		return nil, errors.New("the number of suffixes must be positive")
	}

	suffixes := make([]string, 0, howMany)
	for k := 0; k < howMany; k++ {
		suffixes = append(suffixes, uuid.New().String())
	}

	return NewEntityFactory(generator, suffixes...)
}

func (f *EntityFactory) Size() int {
	return len(f.suffixes)
}

// NewEntity creates a new entity with an id ending in the suffix at the
// given index. The index must be a valid index into the suffix list.
func (f *EntityFactory) NewEntity(suffixIndex int) *entities.EntityImpl {
	return f.generator().SetIDWithTypePrefix(f.suffixes[suffixIndex])
}

// NewBatch creates one entity per suffix, in suffix list order
func (f *EntityFactory) NewBatch() []*entities.EntityImpl {
	batch := make([]*entities.EntityImpl, 0, len(f.suffixes))
	for k := range f.suffixes {
		batch = append(batch, f.NewEntity(k))
	}
	return batch
}

// EntityID returns the id an entity created for the given suffix index
// would get
func (f *EntityFactory) EntityID(suffixIndex int) string {
	return f.NewEntity(suffixIndex).ID()
}

// EntityBatches streams batches from the factory until the context ends.
// The returned channel is closed when the stream stops.
func EntityBatches(ctx context.Context, factory *EntityFactory) <-chan []*entities.EntityImpl {
	batches := make(chan []*entities.EntityImpl)

	go func() {
		defer close(batches)

		for {
			select {
			case batches <- factory.NewBatch():
			case <-ctx.Done():
				return
			}
		}
	}()

	return batches
}
