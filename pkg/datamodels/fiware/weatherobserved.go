package fiware

import (
	"fmt"
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

//WeatherObservedSchema declares the attributes a WeatherObserved entity may carry
var WeatherObservedSchema = entities.MustSchema(WeatherObservedTypeName,
	entities.Field{Name: "dateObserved", Kind: attributes.Text},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
	entities.Field{Name: "temperature", Kind: attributes.Number},
	entities.Field{Name: "relativeHumidity", Kind: attributes.Number},
	entities.Field{Name: "windSpeed", Kind: attributes.Number},
	entities.Field{Name: "windDirection", Kind: attributes.Number},
)

//NewWeatherObserved creates a new instance of WeatherObserved
func NewWeatherObserved(observationID string, latitude float64, longitude float64, observedAt string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one attribute must be set in a weatherobserved entity")
	}

	if !strings.HasPrefix(observationID, WeatherObservedIDPrefix) {
		observationID = WeatherObservedIDPrefix + observationID
	}

	decorators = append(decorators, DateObserved(observedAt), Location(latitude, longitude))

	e, err := entities.New(
		observationID, WeatherObservedSchema,
		decorators...,
	)

	return e, err
}
