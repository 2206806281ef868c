package diwise

import (
	"strings"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
)

//SportsFieldSchema declares the attributes a SportsField entity may carry
var SportsFieldSchema = entities.MustSchema(SportsFieldTypeName,
	entities.Field{Name: "name", Kind: attributes.Text},
	entities.Field{Name: "description", Kind: attributes.Text},
	entities.Field{Name: "category", Kind: attributes.Array},
	entities.Field{Name: "location", Kind: attributes.StructuredValue},
	entities.Field{Name: "status", Kind: attributes.Text},
)

// NewSportsField creates a new instance of SportsField
func NewSportsField(id, name string, categories []string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {
	if !strings.HasPrefix(id, SportsFieldIDPrefix) {
		id = SportsFieldIDPrefix + id
	}

	decorators = append(decorators, entities.Text("name", name))

	if len(categories) > 0 {
		values := make([]any, len(categories))
		for i, category := range categories {
			values[i] = category
		}
		decorators = append(decorators, entities.Array("category", values))
	}

	return entities.New(id, SportsFieldSchema, decorators...)
}
