package attributes

import (
	"fmt"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
)

// Kind enumerates the attribute variants that the NGSI-v2 wire format
// defines. Schemas declare the expected Kind for each attribute name.
type Kind int

const (
	kindUnknown Kind = iota
	Number
	Text
	Boolean
	Array
	StructuredValue
)

func (k Kind) Valid() bool {
	return k >= Number && k <= StructuredValue
}

// String returns the wire format type tag for this kind
func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Text:
		return "Text"
	case Boolean:
		return "Boolean"
	case Array:
		return "Array"
	case StructuredValue:
		return "StructuredValue"
	}
	return "Unknown"
}

// AttributeImpl contains the mandatory Type tag
type AttributeImpl struct {
	Type string `json:"type"`
}

// NumberAttribute holds a float64 Value. Integers and floats share this
// single variant since the wire format has no separate integer type.
type NumberAttribute struct {
	AttributeImpl
	Val float64 `json:"value"`
}

func (na *NumberAttribute) Type() string {
	return na.AttributeImpl.Type
}

func (na *NumberAttribute) Value() any {
	return na.Val
}

// NewNumberAttribute is a convenience function for creating NumberAttribute instances
func NewNumberAttribute(value float64) *NumberAttribute {
	return &NumberAttribute{
		AttributeImpl: AttributeImpl{Type: "Number"},
		Val:           value,
	}
}

// TextAttribute holds a string Value
type TextAttribute struct {
	AttributeImpl
	Val string `json:"value"`
}

func (ta *TextAttribute) Type() string {
	return ta.AttributeImpl.Type
}

func (ta *TextAttribute) Value() any {
	return ta.Val
}

// NewTextAttribute accepts a value as a string and returns a new TextAttribute
func NewTextAttribute(value string) *TextAttribute {
	return &TextAttribute{
		AttributeImpl: AttributeImpl{Type: "Text"},
		Val:           value,
	}
}

// BooleanAttribute holds a bool Value
type BooleanAttribute struct {
	AttributeImpl
	Val bool `json:"value"`
}

func (ba *BooleanAttribute) Type() string {
	return ba.AttributeImpl.Type
}

func (ba *BooleanAttribute) Value() any {
	return ba.Val
}

// NewBooleanAttribute accepts a value as a bool and returns a new BooleanAttribute
func NewBooleanAttribute(value bool) *BooleanAttribute {
	return &BooleanAttribute{
		AttributeImpl: AttributeImpl{Type: "Boolean"},
		Val:           value,
	}
}

// ArrayAttribute holds an ordered list Value
type ArrayAttribute struct {
	AttributeImpl
	Val []any `json:"value"`
}

func (aa *ArrayAttribute) Type() string {
	return aa.AttributeImpl.Type
}

func (aa *ArrayAttribute) Value() any {
	return aa.Val
}

// NewArrayAttribute accepts a value as a slice and returns a new ArrayAttribute
func NewArrayAttribute(value []any) *ArrayAttribute {
	return &ArrayAttribute{
		AttributeImpl: AttributeImpl{Type: "Array"},
		Val:           value,
	}
}

// StructuredValueAttribute holds a key-value map Value
type StructuredValueAttribute struct {
	AttributeImpl
	Val map[string]any `json:"value"`
}

func (sva *StructuredValueAttribute) Type() string {
	return sva.AttributeImpl.Type
}

func (sva *StructuredValueAttribute) Value() any {
	return sva.Val
}

// NewStructuredValueAttribute accepts a value as a map and returns a new StructuredValueAttribute
func NewStructuredValueAttribute(value map[string]any) *StructuredValueAttribute {
	return &StructuredValueAttribute{
		AttributeImpl: AttributeImpl{Type: "StructuredValue"},
		Val:           value,
	}
}

// FromValue infers an attribute variant from the runtime shape of a JSON
// decoded value. Null values and values with no NGSI-v2 representation
// yield no attribute at all, never an attribute wrapping a null.
func FromValue(value any) (types.Attribute, bool) {
	if value == nil {
		return nil, false
	}

	switch typedValue := value.(type) {
	case bool:
		return NewBooleanAttribute(typedValue), true
	case float64:
		return NewNumberAttribute(typedValue), true
	case int:
		return NewNumberAttribute(float64(typedValue)), true
	case int64:
		return NewNumberAttribute(float64(typedValue)), true
	case float32:
		return NewNumberAttribute(float64(typedValue)), true
	case string:
		return NewTextAttribute(typedValue), true
	case []any:
		return NewArrayAttribute(typedValue), true
	case map[string]any:
		return NewStructuredValueAttribute(typedValue), true
	default:
		return nil, false
	}
}

// UnmarshalA parses a full representation attribute document ({"type": ...,
// "value": ...}) into the variant that kind declares. Documents without a
// value, with a null value, or with a value whose shape contradicts the
// declared kind are errors that fail the construction of the whole entity.
func UnmarshalA(body map[string]any, kind Kind) (types.Attribute, error) {
	value, ok := body["value"]
	if !ok {
		return nil, fmt.Errorf("attributes without a value are not supported")
	}

	if value == nil {
		return nil, fmt.Errorf("attribute values must not be null")
	}

	switch kind {
	case Number:
		number, ok := asNumber(value)
		if !ok {
			return nil, fmt.Errorf("attribute value of type %T is not a number", value)
		}
		return NewNumberAttribute(number), nil
	case Text:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("attribute value of type %T is not a string", value)
		}
		return NewTextAttribute(text), nil
	case Boolean:
		boolean, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("attribute value of type %T is not a boolean", value)
		}
		return NewBooleanAttribute(boolean), nil
	case Array:
		arr, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("attribute value of type %T is not an array", value)
		}
		return NewArrayAttribute(arr), nil
	case StructuredValue:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("attribute value of type %T is not an object", value)
		}
		return NewStructuredValueAttribute(obj), nil
	default:
		return nil, fmt.Errorf("unsupported attribute kind %s", kind.String())
	}
}

// KindOf returns the Kind matching the type tag of an attribute
func KindOf(a types.Attribute) Kind {
	switch a.Type() {
	case "Number":
		return Number
	case "Text":
		return Text
	case "Boolean":
		return Boolean
	case "Array":
		return Array
	case "StructuredValue":
		return StructuredValue
	}
	return kindUnknown
}

func asNumber(value any) (float64, bool) {
	switch typedValue := value.(type) {
	case float64:
		return typedValue, true
	case int:
		return float64(typedValue), true
	case int64:
		return float64(typedValue), true
	case float32:
		return float64(typedValue), true
	}
	return 0, false
}
