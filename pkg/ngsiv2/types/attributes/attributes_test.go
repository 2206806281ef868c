package attributes

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestInferNumberFromFloat(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue(12.3)

	is.True(ok)
	is.Equal(a.Type(), "Number")
	is.Equal(a.Value(), 12.3)
}

func TestInferNumberFromInt(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue(42)

	is.True(ok)
	is.Equal(a.Type(), "Number")
	is.Equal(a.Value(), 42.0)
}

func TestInferTextFromString(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue("high")

	is.True(ok)
	is.Equal(a.Type(), "Text")
	is.Equal(a.Value(), "high")
}

func TestInferBooleanFromBool(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue(true)

	is.True(ok)
	is.Equal(a.Type(), "Boolean")
	is.Equal(a.Value(), true)
}

func TestInferArrayFromSlice(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue([]any{1.0, 2.0, 3.0})

	is.True(ok)
	is.Equal(a.Type(), "Array")
	is.Equal(a.Value(), []any{1.0, 2.0, 3.0})
}

func TestInferStructuredValueFromMap(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue(map[string]any{"p": 2.06})

	is.True(ok)
	is.Equal(a.Type(), "StructuredValue")
	is.Equal(a.Value(), map[string]any{"p": 2.06})
}

func TestInferNothingFromNil(t *testing.T) {
	is := is.New(t)
	a, ok := FromValue(nil)

	is.True(!ok)
	is.Equal(a, nil)
}

func TestInferNothingFromUnsupportedShapes(t *testing.T) {
	is := is.New(t)
	_, ok := FromValue(struct{}{})

	is.True(!ok)
}

func TestThatAttributesSerializeToTheWireShape(t *testing.T) {
	is := is.New(t)
	b, err := json.Marshal(NewNumberAttribute(12.3))

	is.NoErr(err)
	is.Equal(string(b), `{"type":"Number","value":12.3}`)
}

func TestUnmarshalNumber(t *testing.T) {
	is := is.New(t)
	a, err := UnmarshalA(map[string]any{"type": "Number", "value": 12.3}, Number)

	is.NoErr(err)
	is.Equal(a.Value(), 12.3)
}

func TestUnmarshalFailsWithoutValue(t *testing.T) {
	is := is.New(t)
	_, err := UnmarshalA(map[string]any{"type": "Number"}, Number)

	is.True(err != nil)
}

func TestUnmarshalFailsOnNullValue(t *testing.T) {
	is := is.New(t)
	_, err := UnmarshalA(map[string]any{"type": "Number", "value": nil}, Number)

	is.True(err != nil)
}

func TestUnmarshalFailsOnShapeMismatch(t *testing.T) {
	is := is.New(t)
	_, err := UnmarshalA(map[string]any{"type": "Text", "value": "not a number"}, Number)

	is.True(err != nil)
}

func TestKindTags(t *testing.T) {
	is := is.New(t)
	is.Equal(Number.String(), "Number")
	is.Equal(Text.String(), "Text")
	is.Equal(Boolean.String(), "Boolean")
	is.Equal(Array.String(), "Array")
	is.Equal(StructuredValue.String(), "StructuredValue")
}
