package fiware

import (
	"fmt"
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

var BeachSchema = entities.MustSchema(BeachTypeName,
	entities.Field{Name: "name", Kind: attributes.Text},
	entities.Field{Name: "description", Kind: attributes.Text},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
	entities.Field{Name: "waterTemperature", Kind: attributes.Number},
)

// NewBeach creates a new instance of Beach
func NewBeach(entityID string, name string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one attribute must be set in a beach entity")
	}

	if !strings.HasPrefix(entityID, BeachIDPrefix) {
		entityID = BeachIDPrefix + entityID
	}

	decorators = append(decorators, entities.Text("name", name))

	e, err := entities.New(
		entityID, BeachSchema,
		decorators...,
	)

	return e, err
}
