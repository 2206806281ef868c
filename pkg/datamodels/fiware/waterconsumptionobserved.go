package fiware

import (
	"fmt"
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

var WaterConsumptionObservedSchema = entities.MustSchema(WaterConsumptionObservedTypeName,
	entities.Field{Name: "waterConsumption", Kind: attributes.Number},
	entities.Field{Name: "alarmWaterQuality", Kind: attributes.Number},
	entities.Field{Name: "alarmStopsLeaks", Kind: attributes.Number},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
)

func NewWaterConsumptionObserved(entityID string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {
	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one attribute must be set in a waterconsumptionobserved entity")
	}

	if !strings.HasPrefix(entityID, WaterConsumptionObservedIDPrefix) {
		entityID = WaterConsumptionObservedIDPrefix + entityID
	}

	e, err := entities.New(
		entityID, WaterConsumptionObservedSchema,
		decorators...,
	)

	return e, err
}
