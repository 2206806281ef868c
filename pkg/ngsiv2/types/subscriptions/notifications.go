package subscriptions

import (
	"encoding/json"
	"errors"

	ngsierrors "github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
	"github.com/google/uuid"
)

// EntityUpdateNotification is the document a context broker posts to
// notification endpoints, a batch of full representation entity documents
// tagged with the subscription that triggered it
type EntityUpdateNotification struct {
	SubscriptionID string           `json:"subscriptionId,omitempty"`
	Data           []map[string]any `json:"data"`
}

// NewEntityUpdateNotification creates a notification document like the
// ones brokers deliver, with a generated subscription id
func NewEntityUpdateNotification(notified ...types.Entity) (*EntityUpdateNotification, error) {
	n := &EntityUpdateNotification{
		SubscriptionID: uuid.New().String(),
		Data:           make([]map[string]any, 0, len(notified)),
	}

	for _, e := range notified {
		body, err := e.MarshalJSON()
		if err != nil {
			return nil, err
		}

		var raw map[string]any
		err = json.Unmarshal(body, &raw)
		if err != nil {
			return nil, err
		}

		n.Data = append(n.Data, raw)
	}

	return n, nil
}

// FilterEntities converts every notified entity document of the schema
// bound type into a typed entity. Documents of other types are filtered
// out of the result, since notification streams routinely interleave
// entity types, but malformed documents of the right type are errors.
func (n EntityUpdateNotification) FilterEntities(schema entities.Schema) ([]*entities.EntityImpl, error) {
	filtered := make([]*entities.EntityImpl, 0, len(n.Data))

	for _, raw := range n.Data {
		e, err := schema.FromRaw(raw)
		if err != nil {
			if errors.Is(err, ngsierrors.ErrTypeMismatch) {
				continue
			}
			return nil, err
		}

		filtered = append(filtered, e)
	}

	return filtered, nil
}
