package fiware

import (
	"fmt"
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

var IndoorEnvironmentObservedSchema = entities.MustSchema(IndoorEnvironmentObservedTypeName,
	entities.Field{Name: "dateObserved", Kind: attributes.Text},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
	entities.Field{Name: "temperature", Kind: attributes.Number},
	entities.Field{Name: "relativeHumidity", Kind: attributes.Number},
	entities.Field{Name: "co2", Kind: attributes.Number},
)

func NewIndoorEnvironmentObserved(id, dateObserved string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one attribute must be set in an indoorenvironmentobserved entity")
	}

	if !strings.HasPrefix(id, IndoorEnvironmentObservedIDPrefix) {
		id = IndoorEnvironmentObservedIDPrefix + id
	}

	decorators = append(decorators, DateObserved(dateObserved))

	return entities.New(id, IndoorEnvironmentObservedSchema, decorators...)
}
