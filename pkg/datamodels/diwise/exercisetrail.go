package diwise

import (
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

//ExerciseTrailSchema declares the attributes an ExerciseTrail entity may carry
var ExerciseTrailSchema = entities.MustSchema(ExerciseTrailTypeName,
	entities.Field{Name: "name", Kind: attributes.Text},
	entities.Field{Name: "description", Kind: attributes.Text},
	entities.Field{Name: "length", Kind: attributes.Number},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
	entities.Field{Name: "status", Kind: attributes.Text},
)

// NewExerciseTrail creates a new instance of ExerciseTrail
func NewExerciseTrail(id, name string, length float64, description string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {
	if !strings.HasPrefix(id, ExerciseTrailIDPrefix) {
		id = ExerciseTrailIDPrefix + id
	}

	decorators = append(decorators, entities.Text("name", name), entities.Text("description", description))

	if length > 0.1 {
		decorators = append(decorators, entities.Number("length", length))
	}

	return entities.New(id, ExerciseTrailSchema, decorators...)
}
