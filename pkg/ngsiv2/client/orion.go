package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ngsierrors "github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/entities"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrionClient wraps the NGSI-v2 API of an Orion style context broker
type OrionClient interface {
	UpsertEntity(ctx context.Context, entity types.Entity) error
	UpsertEntities(ctx context.Context, batch []types.Entity) error
	ListEntities(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Entity, error)
	ListEntityIDs(ctx context.Context, parameters ...RequestDecoratorFunc) ([]string, error)
	ListEntitiesOfType(ctx context.Context, schema entities.Schema, parameters ...RequestDecoratorFunc) ([]*entities.EntityImpl, error)
	FetchEntity(ctx context.Context, schema entities.Schema, entityID string) (*entities.EntityImpl, error)
	CreateSubscription(ctx context.Context, sub *subscriptions.Subscription) error
	Subscriptions(ctx context.Context) ([]subscriptions.Subscription, error)
}

func NewOrionClient(serviceURL string, options ...func(*serviceClient)) OrionClient {
	return &orionClient{
		serviceClient: newServiceClient(serviceURL, options...),
	}
}

type orionClient struct {
	serviceClient
}

type entitiesUpsert struct {
	ActionType string         `json:"actionType"`
	Entities   []types.Entity `json:"entities"`
}

// UpsertEntity creates the entity in the broker, or updates its attributes
// if an entity with the same id and type already exists
func (c orionClient) UpsertEntity(ctx context.Context, entity types.Entity) error {
	var err error

	ctx, span := tracer.Start(ctx, "upsert-entity",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, entity.ID())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := entity.MarshalJSON()
	if err != nil {
		return err
	}

	response, responseBody, err := c.callService(
		ctx, http.MethodPost, c.endpoint("/v2/entities", []string{"options=upsert"}), bytes.NewBuffer(body),
	)

	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		err = ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
		return err
	}

	if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusNoContent {
		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, ngsierrors.ErrInternal)
		return err
	}

	return nil
}

// UpsertEntities appends a batch of entities via the broker's update
// operation endpoint
func (c orionClient) UpsertEntities(ctx context.Context, batch []types.Entity) error {
	var err error

	ctx, span := tracer.Start(ctx, "upsert-entities",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(entitiesUpsert{ActionType: "append", Entities: batch})
	if err != nil {
		return err
	}

	response, responseBody, err := c.callService(
		ctx, http.MethodPost, c.endpoint("/v2/op/update", nil), bytes.NewBuffer(body),
	)

	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		err = ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
		return err
	}

	if response.StatusCode != http.StatusNoContent {
		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, ngsierrors.ErrInternal)
		return err
	}

	return nil
}

// ListEntities returns an id and type only summary of every entity in the
// broker, regardless of entity type
func (c orionClient) ListEntities(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Entity, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-entities",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	// ask for a nonexistent attribute so that the broker includes only
	// the id and type fields of each entity
	params := collectParams(parameters, "attrs=id")

	responseBody, err := c.getJSON(ctx, c.endpoint("/v2/entities", params))
	if err != nil {
		return nil, err
	}

	var summaries []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}

	err = json.Unmarshal(responseBody, &summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity summaries: %s (%w)", err.Error(), ngsierrors.ErrBadResponse)
	}

	list := make([]types.Entity, 0, len(summaries))
	for _, summary := range summaries {
		list = append(list, entities.NewBase(summary.ID, summary.Type))
	}

	return list, nil
}

// ListEntityIDs returns the ids of every entity in the broker
func (c orionClient) ListEntityIDs(ctx context.Context, parameters ...RequestDecoratorFunc) ([]string, error) {
	list, err := c.ListEntities(ctx, parameters...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID())
	}

	return ids, nil
}

// ListEntitiesOfType returns all entities of the schema bound type, parsed
// from their full representation. Entities of other types are filtered out
// rather than reported as errors.
func (c orionClient) ListEntitiesOfType(ctx context.Context, schema entities.Schema, parameters ...RequestDecoratorFunc) ([]*entities.EntityImpl, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-entities-of-type",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityType, schema.Type())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := collectParams(parameters, "type="+url.QueryEscape(schema.Type()))

	responseBody, err := c.getJSON(ctx, c.endpoint("/v2/entities", params))
	if err != nil {
		return nil, err
	}

	list, err := unmarshalEntitiesOfType(schema, responseBody)
	return list, err
}

// FetchEntity retrieves a single entity by id, parsed against the given
// schema. A missing entity is reported as an ErrNotFound.
func (c orionClient) FetchEntity(ctx context.Context, schema entities.Schema, entityID string) (*entities.EntityImpl, error) {
	var err error

	ctx, span := tracer.Start(ctx, "fetch-entity",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, entityID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := []string{
		"id=" + url.QueryEscape(entityID),
		"type=" + url.QueryEscape(schema.Type()),
	}

	responseBody, err := c.getJSON(ctx, c.endpoint("/v2/entities", params))
	if err != nil {
		return nil, err
	}

	list, err := unmarshalEntitiesOfType(schema, responseBody)
	if err != nil {
		return nil, err
	}

	if len(list) == 0 {
		err = ngsierrors.NewNotFoundError(fmt.Sprintf("no %s entity with id %s", schema.Type(), entityID))
		return nil, err
	}

	return list[0], nil
}

// CreateSubscription registers a subscription with the broker. Brokers
// deliver the notifications, this client only passes the registration on.
func (c orionClient) CreateSubscription(ctx context.Context, sub *subscriptions.Subscription) error {
	var err error

	ctx, span := tracer.Start(ctx, "create-subscription",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	response, responseBody, err := c.callService(
		ctx, http.MethodPost, c.endpoint("/v2/subscriptions", nil), bytes.NewBuffer(body),
	)

	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		err = ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
		return err
	}

	if response.StatusCode != http.StatusCreated {
		err = fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, ngsierrors.ErrInternal)
		return err
	}

	return nil
}

// Subscriptions lists the subscriptions currently registered with the broker
func (c orionClient) Subscriptions(ctx context.Context) ([]subscriptions.Subscription, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-subscriptions",
		trace.WithAttributes(attribute.String(TraceAttributeFiwareService, c.fiware.Service)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	responseBody, err := c.getJSON(ctx, c.endpoint("/v2/subscriptions", nil))
	if err != nil {
		return nil, err
	}

	var subs []subscriptions.Subscription
	err = json.Unmarshal(responseBody, &subs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscriptions: %s (%w)", err.Error(), ngsierrors.ErrBadResponse)
	}

	return subs, nil
}

func (c orionClient) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	response, responseBody, err := c.callService(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, ngsierrors.NewErrorFromServiceResponse(response.StatusCode, responseBody)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, ngsierrors.ErrInternal)
	}

	return responseBody, nil
}

func unmarshalEntitiesOfType(schema entities.Schema, responseBody []byte) ([]*entities.EntityImpl, error) {
	var rawEntities []map[string]any

	err := json.Unmarshal(responseBody, &rawEntities)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entities: %s (%w)", err.Error(), ngsierrors.ErrBadResponse)
	}

	list := make([]*entities.EntityImpl, 0, len(rawEntities))

	for _, raw := range rawEntities {
		e, err := schema.FromRaw(raw)
		if err != nil {
			if errors.Is(err, ngsierrors.ErrTypeMismatch) {
				continue
			}
			return nil, err
		}

		list = append(list, e)
	}

	return list, nil
}
