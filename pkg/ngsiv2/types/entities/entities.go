package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	ngsierrors "github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/attributes"
)

// Field declares a named attribute slot in a schema
type Field struct {
	Name string
	Kind attributes.Kind
}

// Schema binds an entity type to an ordered set of declared attribute
// slots. Schemas are plain values, safe to copy and to share between
// goroutines, and decide both which attributes an entity can carry and
// the order they appear in when the entity is serialized.
type Schema struct {
	entityType string
	fields     []Field
}

func NewSchema(entityType string, fields ...Field) (Schema, error) {
	if entityType == "" {
		return Schema{}, fmt.Errorf("entity type must not be empty")
	}

	declared := map[string]bool{}

	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("attribute names must not be empty")
		}

		if f.Name == "id" || f.Name == "type" {
			return Schema{}, fmt.Errorf("\"%s\" is reserved and can not be used as an attribute name", f.Name)
		}

		if !f.Kind.Valid() {
			return Schema{}, fmt.Errorf("attribute \"%s\" is declared with an unknown kind", f.Name)
		}

		if declared[f.Name] {
			return Schema{}, fmt.Errorf("attribute \"%s\" is declared more than once", f.Name)
		}

		declared[f.Name] = true
	}

	return Schema{
		entityType: entityType,
		fields:     append([]Field{}, fields...),
	}, nil
}

// MustSchema is like NewSchema but panics on invalid declarations. It
// simplifies safe initialization of package level schema variables.
func MustSchema(entityType string, fields ...Field) Schema {
	s, err := NewSchema(entityType, fields...)
	if err != nil {
		panic(`entities: MustSchema: ` + err.Error())
	}
	return s
}

func (s Schema) Type() string {
	return s.entityType
}

func (s Schema) Fields() []Field {
	return append([]Field{}, s.fields...)
}

// FromRaw creates an entity from the full wire representation, where each
// attribute is a {"type": ..., "value": ...} document. Documents of another
// entity type yield an ErrTypeMismatch so that callers can filter mixed
// streams, declared attributes with malformed documents fail the whole
// entity, and undeclared fields in raw are ignored.
func (s Schema) FromRaw(raw map[string]any) (*EntityImpl, error) {
	rawType, _ := raw["type"].(string)
	if rawType != s.entityType {
		return nil, ngsierrors.NewTypeMismatchError(s.entityType, rawType)
	}

	e := s.newEntity("")
	e.entityID, _ = raw["id"].(string)

	for _, f := range s.fields {
		contents, ok := raw[f.Name]
		if !ok {
			continue
		}

		body, ok := contents.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("attribute \"%s\" is not an attribute document", f.Name)
		}

		a, err := attributes.UnmarshalA(body, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal attribute \"%s\": %w", f.Name, err)
		}

		e.attributes[f.Name] = a
	}

	return e, nil
}

// FromJSON unmarshals a full representation entity document and delegates
// to FromRaw.
func (s Schema) FromJSON(body []byte) (*EntityImpl, error) {
	var raw map[string]any

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return s.FromRaw(raw)
}

// FromKeyValues creates an entity from the flattened wire representation,
// where attribute values appear without their type wrapper. The same type
// mismatch rule applies as for FromRaw. Attribute values are mapped via
// inference and values that infer to nothing, or to a different kind than
// the declaration, are silently dropped rather than treated as errors.
func (s Schema) FromKeyValues(raw map[string]any) (*EntityImpl, error) {
	rawType, _ := raw["type"].(string)
	if rawType != s.entityType {
		return nil, ngsierrors.NewTypeMismatchError(s.entityType, rawType)
	}

	e := s.newEntity("")
	e.entityID, _ = raw["id"].(string)

	for _, f := range s.fields {
		value, ok := raw[f.Name]
		if !ok {
			continue
		}

		a, ok := attributes.FromValue(value)
		if !ok || attributes.KindOf(a) != f.Kind {
			continue
		}

		e.attributes[f.Name] = a
	}

	return e, nil
}

// DynamicFromKeyValues creates an entity from the flattened representation
// without a preexisting schema, declaring one attribute slot per key whose
// value infers to an attribute. The resulting schema is named after the
// type carried by raw and orders its fields by name.
func DynamicFromKeyValues(raw map[string]any) (*EntityImpl, error) {
	rawType, _ := raw["type"].(string)
	if rawType == "" {
		return nil, fmt.Errorf("entities without a usable type can not be constructed")
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		if name == "id" || name == "type" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	inferred := map[string]types.Attribute{}
	fields := make([]Field, 0, len(names))

	for _, name := range names {
		a, ok := attributes.FromValue(raw[name])
		if !ok {
			continue
		}

		fields = append(fields, Field{Name: name, Kind: attributes.KindOf(a)})
		inferred[name] = a
	}

	schema, err := NewSchema(rawType, fields...)
	if err != nil {
		return nil, err
	}

	e := schema.newEntity("")
	e.entityID, _ = raw["id"].(string)

	for name, a := range inferred {
		e.attributes[name] = a
	}

	return e, nil
}

type EntityDecoratorFunc func(e *EntityImpl)

// New creates an entity of the schema bound type with the given id, applying
// any decorators. Decorated attributes must be declared in the schema and
// must match the kind they were declared with.
func New(entityID string, schema Schema, decorators ...EntityDecoratorFunc) (*EntityImpl, error) {
	e := schema.newEntity(entityID)

	for _, decorator := range decorators {
		decorator(e)
	}

	for name, a := range e.attributes {
		f, ok := e.field(name)
		if !ok {
			return nil, fmt.Errorf("attribute \"%s\" is not declared in the %s schema", name, e.entityType)
		}

		if a == nil {
			return nil, fmt.Errorf("attribute \"%s\" must not be nil", name)
		}

		if attributes.KindOf(a) != f.Kind {
			return nil, fmt.Errorf("attribute \"%s\" must be of kind %s, not %s", name, f.Kind.String(), a.Type())
		}
	}

	return e, nil
}

// NewBase creates an entity carrying nothing but an id and a type, the
// shape brokers return for summary listings.
func NewBase(entityID, entityType string) *EntityImpl {
	return &EntityImpl{
		entityID:   entityID,
		entityType: entityType,
		attributes: map[string]types.Attribute{},
	}
}

// LDURN prefixes the given suffix with the urn:ngsi-ld: namespace
func LDURN(uniqueSuffix string) string {
	return "urn:ngsi-ld:" + uniqueSuffix
}

type EntityImpl struct {
	entityID   string
	entityType string

	fields     []Field
	attributes map[string]types.Attribute
}

func (e EntityImpl) ID() string {
	return e.entityID
}

func (e EntityImpl) Type() string {
	return e.entityType
}

// Attribute returns the named attribute, or false if it is absent
func (e EntityImpl) Attribute(name string) (types.Attribute, bool) {
	a, ok := e.attributes[name]
	return a, ok
}

// SetIDWithTypePrefix rewrites the entity id to urn:ngsi-ld:{type}:{suffix}
// in place and returns the same entity to allow chaining.
func (e *EntityImpl) SetIDWithTypePrefix(uniqueSuffix string) *EntityImpl {
	e.entityID = LDURN(e.entityType + ":" + uniqueSuffix)
	return e
}

// ForEachAttribute invokes the callback over all present attributes in
// declaration order. Absent attributes are never visited.
func (e EntityImpl) ForEachAttribute(callback func(attributeType, attributeName string, attr types.Attribute)) error {
	for _, f := range e.fields {
		if a, ok := e.attributes[f.Name]; ok {
			callback(a.Type(), f.Name, a)
		}
	}

	return nil
}

// MarshalJSON serializes id, type and every present attribute, in that
// order. Absent attributes are omitted entirely, never emitted as null.
func (e EntityImpl) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("{\"id\":")

	id, err := json.Marshal(e.entityID)
	if err != nil {
		return nil, err
	}
	buf.Write(id)

	buf.WriteString(",\"type\":")

	entityType, err := json.Marshal(e.entityType)
	if err != nil {
		return nil, err
	}
	buf.Write(entityType)

	for _, f := range e.fields {
		a, ok := e.attributes[f.Name]
		if !ok {
			continue
		}

		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}

		contents, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}

		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(contents)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (e EntityImpl) field(name string) (Field, bool) {
	for _, f := range e.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) newEntity(entityID string) *EntityImpl {
	return &EntityImpl{
		entityID:   entityID,
		entityType: s.entityType,
		fields:     s.fields,
		attributes: map[string]types.Attribute{},
	}
}

// A assigns an attribute to a named slot when creating entities via New
func A(name string, a types.Attribute) EntityDecoratorFunc {
	return func(e *EntityImpl) { e.attributes[name] = a }
}

func Number(name string, value float64) EntityDecoratorFunc {
	return A(name, attributes.NewNumberAttribute(value))
}

func Text(name string, value string) EntityDecoratorFunc {
	return A(name, attributes.NewTextAttribute(value))
}

func Boolean(name string, value bool) EntityDecoratorFunc {
	return A(name, attributes.NewBooleanAttribute(value))
}

func Array(name string, value []any) EntityDecoratorFunc {
	return A(name, attributes.NewArrayAttribute(value))
}

func StructuredValue(name string, value map[string]any) EntityDecoratorFunc {
	return A(name, attributes.NewStructuredValueAttribute(value))
}
