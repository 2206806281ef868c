package fiware

import (
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

//DateObserved returns a decorator that sets the observation timestamp
func DateObserved(timestamp string) entities.EntityDecoratorFunc {
	return entities.Text("dateObserved", timestamp)
}

//Location returns a decorator that sets a GeoJSON point location
func Location(latitude, longitude float64) entities.EntityDecoratorFunc {
	return entities.StructuredValue("location", map[string]any{
		"type":        "Point",
		"coordinates": []any{longitude, latitude},
	})
}
