package fiware

import (
	"fmt"
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

//DeviceSchema declares the attributes a Device entity may carry
var DeviceSchema = entities.MustSchema(DeviceTypeName,
	entities.Field{Name: "value", Kind: attributes.Text},
	entities.Field{Name: "batteryLevel", Kind: attributes.Number},
	entities.Field{Name: "rssi", Kind: attributes.Number},
	entities.Field{Name: "deviceState", Kind: attributes.Text},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
)

//NewDevice creates a new instance of Device
func NewDevice(entityID string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one attribute must be set in a device entity")
	}

	if !strings.HasPrefix(entityID, DeviceIDPrefix) {
		entityID = DeviceIDPrefix + entityID
	}

	e, err := entities.New(
		entityID, DeviceSchema,
		decorators...,
	)

	return e, err
}
