package diwise

import (
	"encoding/json"
	"testing"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"

	"github.com/matryer/is"
)

func TestNewExerciseTrail(t *testing.T) {
	is := is.New(t)

	e, err := NewExerciseTrail("trail1", "Hälsans stig", 2.7, "En motionsslinga")
	is.NoErr(err)
	is.Equal(e.ID(), "urn:ngsi-ld:ExerciseTrail:trail1")

	body, err := json.Marshal(e)
	is.NoErr(err)
	is.Equal(string(body), `{"id":"urn:ngsi-ld:ExerciseTrail:trail1","type":"ExerciseTrail","name":{"type":"Text","value":"Hälsans stig"},"description":{"type":"Text","value":"En motionsslinga"},"length":{"type":"Number","value":2.7}}`)
}

func TestNewExerciseTrailLeavesOutNegligibleLengths(t *testing.T) {
	is := is.New(t)

	e, err := NewExerciseTrail("trail1", "Hälsans stig", 0.0, "En motionsslinga")
	is.NoErr(err)

	_, ok := e.Attribute("length")
	is.True(!ok)
}

func TestNewExerciseTrailKeepsAnAlreadyPrefixedID(t *testing.T) {
	is := is.New(t)

	e, err := NewExerciseTrail("urn:ngsi-ld:ExerciseTrail:trail1", "Hälsans stig", 2.7, "En motionsslinga")

	is.NoErr(err)
	is.Equal(e.ID(), "urn:ngsi-ld:ExerciseTrail:trail1")
}

func TestNewExerciseTrailAcceptsAStatusDecorator(t *testing.T) {
	is := is.New(t)

	e, err := NewExerciseTrail("trail1", "Hälsans stig", 2.7, "En motionsslinga",
		entities.Text("status", "open"),
	)

	is.NoErr(err)

	status, ok := e.Attribute("status")
	is.True(ok)
	is.Equal(status.Value(), "open")
}

func TestNewSportsField(t *testing.T) {
	is := is.New(t)

	e, err := NewSportsField("sf1", "Ishallen", []string{"ice-rink", "flood-lit"})
	is.NoErr(err)
	is.Equal(e.ID(), "urn:ngsi-ld:SportsField:sf1")

	body, err := json.Marshal(e)
	is.NoErr(err)
	is.Equal(string(body), `{"id":"urn:ngsi-ld:SportsField:sf1","type":"SportsField","name":{"type":"Text","value":"Ishallen"},"category":{"type":"Array","value":["ice-rink","flood-lit"]}}`)
}

func TestNewSportsFieldWithoutCategoriesLeavesTheAttributeOut(t *testing.T) {
	is := is.New(t)

	e, err := NewSportsField("sf1", "Ishallen", nil)
	is.NoErr(err)

	_, ok := e.Attribute("category")
	is.True(!ok)
}
