package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	ngsierrors "github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/series"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QuantumLeapClient wraps the NGSI-v2 flavoured API of a QuantumLeap
// time series store
type QuantumLeapClient interface {
	ListEntities(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Entity, error)
	InsertEntities(ctx context.Context, batch ...types.Entity) error
	TimeSeries(ctx context.Context, entityID, attrName string, parameters ...RequestDecoratorFunc) (map[string]any, error)
	AllTimeSeries(ctx context.Context, entityType, attrName string, parameters ...RequestDecoratorFunc) (map[string]any, error)
	CountDataPoints(ctx context.Context, entityType, attrName string) int
	EntitySeries(ctx context.Context, entityID, entityType string, parameters ...RequestDecoratorFunc) (*series.EntitySeries, error)
	EntityTypeSeries(ctx context.Context, entityType string, parameters ...RequestDecoratorFunc) (map[string]*series.EntitySeries, error)
}

func NewQuantumLeapClient(serviceURL string, options ...func(*serviceClient)) QuantumLeapClient {
	return &qlClient{
		serviceClient: newServiceClient(serviceURL, options...),
	}
}

type qlClient struct {
	serviceClient
}

// ListEntities returns an id and type only summary of the entities known to
// the time series store. An empty store responds with a 404, which is
// reported as an empty list rather than an error.
func (c qlClient) ListEntities(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Entity, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-series-entities",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := collectParams(parameters)

	response, responseBody, err := c.callService(
		ctx, http.MethodGet, c.endpoint("/v2/entities", params), nil,
	)

	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusNotFound {
		return []types.Entity{}, nil
	}

	if response.StatusCode != http.StatusOK {
		err = ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
		return nil, err
	}

	var summaries []map[string]any
	err = json.Unmarshal(responseBody, &summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity summaries: %s (%w)", err.Error(), ngsierrors.ErrBadResponse)
	}

	return FromEntitySummaries(summaries), nil
}

// InsertEntities posts a batch of entities to the store's notification
// endpoint, the same endpoint that a context broker subscription would
// deliver them to
func (c qlClient) InsertEntities(ctx context.Context, batch ...types.Entity) error {
	var err error

	ctx, span := tracer.Start(ctx, "insert-entities",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	notification, err := subscriptions.NewEntityUpdateNotification(batch...)
	if err != nil {
		return err
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	response, responseBody, err := c.callService(
		ctx, http.MethodPost, c.endpoint("/v2/notify", nil), bytes.NewBuffer(body),
	)

	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		err = ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
		return err
	}

	return nil
}

// TimeSeries returns the stored history of a single attribute of a single
// entity as a raw document
func (c qlClient) TimeSeries(ctx context.Context, entityID, attrName string, parameters ...RequestDecoratorFunc) (map[string]any, error) {
	var err error

	ctx, span := tracer.Start(ctx, "attr-time-series",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, entityID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	endpoint := c.endpoint(
		"/v2/entities/"+url.QueryEscape(entityID)+"/attrs/"+url.QueryEscape(attrName),
		collectParams(parameters),
	)

	doc, err := c.getDocument(ctx, endpoint)
	return doc, err
}

// AllTimeSeries returns the stored history of a single attribute across all
// entities of a type as a raw document
func (c qlClient) AllTimeSeries(ctx context.Context, entityType, attrName string, parameters ...RequestDecoratorFunc) (map[string]any, error) {
	var err error

	ctx, span := tracer.Start(ctx, "type-time-series",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityType, entityType)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	endpoint := c.endpoint(
		"/v2/types/"+url.QueryEscape(entityType)+"/attrs/"+url.QueryEscape(attrName),
		collectParams(parameters),
	)

	doc, err := c.getDocument(ctx, endpoint)
	return doc, err
}

// CountDataPoints sums the number of stored values of an attribute over all
// entities of a type. Errors, including an empty store, count as zero.
func (c qlClient) CountDataPoints(ctx context.Context, entityType, attrName string) int {
	doc, err := c.AllTimeSeries(ctx, entityType, attrName)
	if err != nil {
		return 0
	}

	sum := 0

	if docEntities, ok := doc["entities"].([]any); ok {
		for _, e := range docEntities {
			entity, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if values, ok := entity["values"].([]any); ok {
				sum += len(values)
			}
		}
	}

	return sum
}

// EntitySeries returns the stored history of every attribute of a single
// entity, transposed into per attribute value columns over a shared time
// index
func (c qlClient) EntitySeries(ctx context.Context, entityID, entityType string, parameters ...RequestDecoratorFunc) (*series.EntitySeries, error) {
	var err error

	ctx, span := tracer.Start(ctx, "entity-series",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, entityID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := collectParams(parameters, "type="+url.QueryEscape(entityType))

	doc, err := c.getDocument(ctx, c.endpoint("/v2/entities/"+url.QueryEscape(entityID), params))
	if err != nil {
		return nil, err
	}

	result, err := series.FromEntityQueryResult(doc)
	return result, err
}

// EntityTypeSeries returns the stored history of every attribute of every
// entity of a type, as one series per entity keyed by entity id
func (c qlClient) EntityTypeSeries(ctx context.Context, entityType string, parameters ...RequestDecoratorFunc) (map[string]*series.EntitySeries, error) {
	var err error

	ctx, span := tracer.Start(ctx, "entity-type-series",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityType, entityType)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := collectParams(parameters)

	doc, err := c.getDocument(ctx, c.endpoint("/v2/types/"+url.QueryEscape(entityType), params))
	if err != nil {
		return nil, err
	}

	result, err := series.FromEntityTypeQueryResult(doc)
	return result, err
}

func (c qlClient) getDocument(ctx context.Context, endpoint string) (map[string]any, error) {
	response, responseBody, err := c.callService(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return nil, ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
	}

	var doc map[string]any
	err = json.Unmarshal(responseBody, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal time series document: %s (%w)", err.Error(), ngsierrors.ErrBadResponse)
	}

	return doc, nil
}

// FromEntitySummaries converts a list of raw entity summary documents, as
// returned by the store's entities endpoint, to entities. Summaries that
// lack an id or a type are left out.
func FromEntitySummaries(summaries []map[string]any) []types.Entity {
	list := make([]types.Entity, 0, len(summaries))

	for _, summary := range summaries {
		entityID, ok := summary["entityId"].(string)
		if !ok || entityID == "" {
			continue
		}

		entityType, ok := summary["entityType"].(string)
		if !ok || entityType == "" {
			continue
		}

		list = append(list, entities.NewBase(entityID, entityType))
	}

	return list
}
