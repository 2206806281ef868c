package series

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

var rawTimeIndex = []any{
	"2022-03-28T18:03:18.923+00:00",
	"2022-03-28T18:03:20.458+00:00",
	"2022-03-28T18:03:22.011+00:00",
}
var directions = []any{"S", "N", "N"}
var speeds = []any{1.308673138, 1.935175709, 1.451720504}

func mkEntityQueryResult(extraAttrs ...any) map[string]any {
	return map[string]any{
		"entityId":   "urn:ngsi-ld:Bot:2",
		"entityType": "Bot",
		"index":      rawTimeIndex,
		"attributes": append(extraAttrs,
			map[string]any{"attrName": "direction", "values": directions},
			map[string]any{"attrName": "speed", "values": speeds},
		),
	}
}

func mkEntityTypeQueryResult() map[string]any {
	return map[string]any{
		"entityType": "Bot",
		"entities": []any{
			map[string]any{
				"entityId": "urn:ngsi-ld:Bot:2",
				"index":    rawTimeIndex,
				"attributes": []any{
					map[string]any{"attrName": "direction", "values": directions},
					map[string]any{"attrName": "speed", "values": speeds},
				},
			},
			map[string]any{
				"entityId": "urn:ngsi-ld:Bot:3",
				"index":    rawTimeIndex,
				"attributes": []any{
					map[string]any{"attrName": "direction", "values": directions},
					map[string]any{"attrName": "speed", "values": []any{2.308673138, 2.935175709, 2.451720504}},
				},
			},
		},
	}
}

func TestFromEntityQueryResult(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())

	is.NoErr(err)
	is.Equal(s.EntityType(), "Bot")
	is.Equal(s.Len(), 3)

	for i, raw := range rawTimeIndex {
		expected, err := time.Parse(time.RFC3339Nano, raw.(string))
		is.NoErr(err)
		is.True(s.Index()[i].Equal(expected))
	}

	direction, ok := s.Attribute("direction")
	is.True(ok)
	is.Equal(direction, directions)

	speed, ok := s.Attribute("speed")
	is.True(ok)
	is.Equal(speed, speeds)
}

func TestThatColumnsKeepTheirDocumentOrder(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())

	is.NoErr(err)
	is.Equal(s.AttributeNames(), []string{"direction", "speed"})
}

func TestThatTheTimeIndexSpansTheExpectedDuration(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())

	is.NoErr(err)
	is.Equal(s.Index()[2].Sub(s.Index()[0]), 3088*time.Millisecond)
}

func TestErrorOnNilDocument(t *testing.T) {
	is := is.New(t)
	_, err := FromEntityQueryResult(nil)

	is.True(err != nil)
}

func TestEmptySeriesOnMissingIndex(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(map[string]any{
		"entityType": "Bot",
		"attributes": []any{
			map[string]any{"attrName": "speed", "values": speeds},
		},
	})

	is.NoErr(err)
	is.Equal(s.Len(), 0)
	is.Equal(len(s.AttributeNames()), 0)

	_, ok := s.Attribute("speed")
	is.True(!ok)
}

func TestEmptySeriesOnEmptyDocument(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(map[string]any{})

	is.NoErr(err)
	is.Equal(s.Len(), 0)
	is.Equal(len(s.AttributeNames()), 0)
}

func TestSkipIncompleteAttrPayloads(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult(
		map[string]any{"attrName": ""},
		map[string]any{"values": []any{1.0, 2.0, 3.0}},
		map[string]any{"attrName": "noValues"},
	))

	is.NoErr(err)
	is.Equal(s.AttributeNames(), []string{"direction", "speed"})
}

func TestUnparsableTimestampsFailTheWholeCall(t *testing.T) {
	is := is.New(t)
	_, err := FromEntityQueryResult(map[string]any{
		"index": []any{"2022-03-28T18:03:18.923+00:00", "not a timestamp"},
	})

	is.True(err != nil)
}

func TestZonelessTimestampsAreInterpretedAsUTC(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(map[string]any{
		"index": []any{"2022-03-28T18:03:18.923"},
	})

	is.NoErr(err)
	is.True(s.Index()[0].Equal(time.Date(2022, 3, 28, 18, 3, 18, 923000000, time.UTC)))
}

func TestFromEntityTypeQueryResult(t *testing.T) {
	is := is.New(t)
	rs, err := FromEntityTypeQueryResult(mkEntityTypeQueryResult())

	is.NoErr(err)
	is.Equal(len(rs), 2)

	bot2 := rs["urn:ngsi-ld:Bot:2"]
	is.Equal(bot2.EntityType(), "Bot")
	speed, ok := bot2.Attribute("speed")
	is.True(ok)
	is.Equal(speed, speeds)

	bot3 := rs["urn:ngsi-ld:Bot:3"]
	speed, ok = bot3.Attribute("speed")
	is.True(ok)
	is.Equal(speed[0], 2.308673138)
}

func TestThatTheCallersDocumentIsNeverMutated(t *testing.T) {
	is := is.New(t)
	doc := mkEntityTypeQueryResult()

	_, err := FromEntityTypeQueryResult(doc)
	is.NoErr(err)

	for _, entry := range doc["entities"].([]any) {
		_, injected := entry.(map[string]any)["entityType"]
		is.True(!injected)
	}
}

func TestEntitiesWithoutAnIDAreKeyedByTheEmptyString(t *testing.T) {
	is := is.New(t)
	rs, err := FromEntityTypeQueryResult(map[string]any{
		"entityType": "Bot",
		"entities": []any{
			map[string]any{"index": []any{"2022-03-28T18:03:18.923+00:00"}},
		},
	})

	is.NoErr(err)
	is.Equal(len(rs), 1)

	_, ok := rs[""]
	is.True(ok)
}

func TestErrorOnNilTypeQueryDocument(t *testing.T) {
	is := is.New(t)
	_, err := FromEntityTypeQueryResult(nil)

	is.True(err != nil)
}

func TestEmptyResultOnMissingEntities(t *testing.T) {
	is := is.New(t)
	rs, err := FromEntityTypeQueryResult(map[string]any{"entityType": "Bot"})

	is.NoErr(err)
	is.Equal(len(rs), 0)
}
