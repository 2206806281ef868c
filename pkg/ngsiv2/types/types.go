package types

// Attribute is the value carrying part of an NGSI-v2 attribute document,
// i.e. the {"type": ..., "value": ...} pair. Attributes are immutable after
// creation and an attribute that would wrap a null value must instead be
// represented as absent (a nil Attribute).
type Attribute interface {
	Type() string
	Value() any
}

type EntityFragment interface {
	ForEachAttribute(func(attributeType, attributeName string, attr Attribute)) error
	MarshalJSON() ([]byte, error)
}

type Entity interface {
	EntityFragment

	ID() string
	Type() string
	Attribute(name string) (Attribute, bool)
}
