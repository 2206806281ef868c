package series

import (
	"fmt"
	"time"
)

// EntitySeries is a time indexed sequence of entity attribute values in a
// columnar, data frame friendly shape.
//
// Say a broker notified a time series of Bot snapshots
//
//	t0, e0 = { id: aw42, type: Bot, speed: v0, direction: w0 }
//	t1, e1 = { id: aw42, type: Bot, speed: v1, direction: w1 }
//	t2, e2 = { id: aw42, type: Bot, speed: v2, direction: w2 }
//
// to the time series service. Querying that service for aw42 returns the
// snapshots transposed into one array per attribute, all sharing a time
// index, and an EntitySeries holds exactly that shape
//
//	index:     t0, t1, t2, ...
//	speed:     v0, v1, v2, ...
//	direction: w0, w1, w2, ...
//
// where value k of every attribute column belongs to instant k of the
// index. A series is built once from a query result and read only after
// that, so it is safe to share and to hand to tabular analysis code.
type EntitySeries struct {
	entityType string
	index      []time.Time
	names      []string
	columns    map[string][]any
}

// layout accepted by time.Parse for index entries without a UTC offset,
// which are interpreted as UTC
const zonelessTimeLayout string = "2006-01-02T15:04:05.999999999"

// FromEntityQueryResult converts the result of a single entity query
// (/v2/entities/{id} on QuantumLeap style services) into an EntitySeries.
//
// A result without a time index is a valid "no data yet" state and yields
// an empty series with no attribute columns at all. A nil document on the
// other hand is a usage error. Index entries that fail to parse as ISO-8601
// instants fail the whole conversion, while attribute payloads without a
// name or without values are skipped and contribute no column.
func FromEntityQueryResult(doc map[string]any) (*EntitySeries, error) {
	if doc == nil {
		return nil, fmt.Errorf("entity series can not be created from a nil document")
	}

	series := &EntitySeries{
		index:   []time.Time{},
		columns: map[string][]any{},
	}
	series.entityType, _ = doc["entityType"].(string)

	rawIndex, ok := doc["index"]
	if !ok || rawIndex == nil {
		return series, nil
	}

	indexEntries, ok := rawIndex.([]any)
	if !ok {
		return nil, fmt.Errorf("the time index must be a list, not %T", rawIndex)
	}

	for _, entry := range indexEntries {
		timestamp, err := parseTimeIndexEntry(entry)
		if err != nil {
			return nil, err
		}

		series.index = append(series.index, timestamp)
	}

	attributePayloads, _ := doc["attributes"].([]any)

	for _, p := range attributePayloads {
		payload, ok := p.(map[string]any)
		if !ok {
			continue
		}

		name, _ := payload["attrName"].(string)
		if name == "" {
			continue
		}

		values, ok := payload["values"].([]any)
		if !ok {
			continue
		}

		if _, exists := series.columns[name]; !exists {
			series.names = append(series.names, name)
		}

		series.columns[name] = values
	}

	return series, nil
}

// FromEntityTypeQueryResult converts the result of an entity type query
// (/v2/types/{type} on QuantumLeap style services) into one EntitySeries
// per returned entity, keyed by entity id. Entities without an id are
// keyed by the empty string, so colliding defaults overwrite each other.
func FromEntityTypeQueryResult(doc map[string]any) (map[string]*EntitySeries, error) {
	if doc == nil {
		return nil, fmt.Errorf("entity series can not be created from a nil document")
	}

	entityType, _ := doc["entityType"].(string)

	rawEntities, ok := doc["entities"]
	if !ok || rawEntities == nil {
		return map[string]*EntitySeries{}, nil
	}

	entityEntries, ok := rawEntities.([]any)
	if !ok {
		return nil, fmt.Errorf("entities must be a list, not %T", rawEntities)
	}

	seriesByID := make(map[string]*EntitySeries, len(entityEntries))

	for _, entry := range entityEntries {
		e, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entity entries must be objects, not %T", entry)
		}

		// shallow copy so that the type injection never leaks into the
		// caller's document
		ec := make(map[string]any, len(e)+1)
		for k, v := range e {
			ec[k] = v
		}
		ec["entityType"] = entityType

		entityID, _ := ec["entityId"].(string)

		series, err := FromEntityQueryResult(ec)
		if err != nil {
			return nil, err
		}

		seriesByID[entityID] = series
	}

	return seriesByID, nil
}

// EntityType returns the type of the entities this series was built from,
// or an empty string if the query result did not carry one
func (s *EntitySeries) EntityType() string {
	return s.entityType
}

// Index returns the shared time index. The returned slice is owned by the
// series and must be treated as read only.
func (s *EntitySeries) Index() []time.Time {
	return s.index
}

// Len returns the number of instants in the time index
func (s *EntitySeries) Len() int {
	return len(s.index)
}

// AttributeNames returns the attribute column names in the order the
// query result listed them
func (s *EntitySeries) AttributeNames() []string {
	return s.names
}

// Attribute returns the value column of the named attribute, or false if
// the series has no such column. The returned slice is owned by the series
// and must be treated as read only.
func (s *EntitySeries) Attribute(name string) ([]any, bool) {
	values, ok := s.columns[name]
	return values, ok
}

func parseTimeIndexEntry(entry any) (time.Time, error) {
	s, ok := entry.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("time index entries must be strings, not %T", entry)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return timestamp, nil
	}

	timestamp, err = time.Parse(zonelessTimeLayout, s)
	if err == nil {
		return timestamp, nil
	}

	return time.Time{}, fmt.Errorf("failed to parse time index entry \"%s\": %w", s, err)
}
