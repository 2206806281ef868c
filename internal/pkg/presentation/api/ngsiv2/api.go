package ngsiv2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/diwise/ngsi-v2-client/internal/pkg/presentation/api/ngsiv2/auth"
	"github.com/diwise/ngsi-v2-client/pkg/accumulator"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/client"
	ngsierrors "github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ql-accumulator/ngsi-v2")

// RegisterHandlers mounts the NGSI-v2 notification receiver endpoints on the
// provided router. A nil policies reader disables authorization, which is the
// expected mode when the accumulator runs inside an integration test.
func RegisterHandlers(ctx context.Context, r *chi.Mux, policies io.Reader, acc *accumulator.Accumulator) error {
	var authenticator auth.Enticator

	if policies != nil {
		var err error

		authenticator, err = auth.NewAuthenticator(ctx, policies)
		if err != nil {
			return fmt.Errorf("failed to create api authenticator: %w", err)
		}
	}

	logger := logging.GetFromContext(ctx)

	r.Route("/v2", func(r chi.Router) {
		r.Use(Logger(logger))
		r.Use(FiwareMiddleware())

		r.Post("/notify", NewNotifyHandler(acc, authenticator))
	})

	r.Get("/health", NewHealthHandler())

	return nil
}

type tenantContextKey struct {
	name string
}

var tenantCtxKey = &tenantContextKey{"fiware-tenant"}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FiwareMiddleware packs any tenant id into the context
func FiwareMiddleware() func(http.Handler) http.Handler {
	tenantHeaderName := http.CanonicalHeaderKey("Fiware-Service")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := "default"

			tenantHeader := r.Header[tenantHeaderName]
			if len(tenantHeader) > 0 {
				tenant = tenantHeader[0]
			}

			if labeler, found := otelhttp.LabelerFromContext(r.Context()); found {
				labeler.Add(attribute.String(client.TraceAttributeFiwareService, tenant))
			}

			ctx := context.WithValue(r.Context(), tenantCtxKey, tenant)

			ctx = logging.NewContextWithLogger(
				ctx,
				logging.GetFromContext(r.Context()),
				"tenant",
				tenant,
			)

			if tenant != "default" {
				w.Header().Add(tenantHeaderName, tenant)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts the tenant name, if any, from the provided context
func GetTenantFromContext(ctx context.Context) string {
	tenant, ok := ctx.Value(tenantCtxKey).(string)

	if !ok {
		return ""
	}

	return tenant
}

// NewNotifyHandler handles notifications that a context broker POSTs to
// registered subscription endpoints
func NewNotifyHandler(acc *accumulator.Accumulator, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)

		ctx, span := tracer.Start(ctx, "receive-notification")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		log := logging.GetFromContext(ctx)

		notification := subscriptions.EntityUpdateNotification{}

		err = json.NewDecoder(r.Body).Decode(&notification)
		if err != nil {
			ngsierrors.ReportParseError(
				w,
				fmt.Sprintf("unable to decode request payload: %s", err.Error()),
			)
			return
		}

		if authenticator != nil {
			err = authenticator.CheckAccess(ctx, r, tenant, notifiedEntityTypes(notification))
			if err != nil {
				log.Warn("access not granted", "err", err.Error())
				messageToSendToNonAuthenticatedClients := "not found"
				ngsierrors.ReportNotFound(w, messageToSendToNonAuthenticatedClients)
				return
			}
		}

		acc.Record(notification)

		log.Debug("notification recorded",
			"subscription", notification.SubscriptionID,
			"entities", len(notification.Data),
		)

		w.WriteHeader(http.StatusOK)
	})
}

// NewHealthHandler handles readiness probes from deployments and tests
func NewHealthHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func notifiedEntityTypes(notification subscriptions.EntityUpdateNotification) []string {
	seen := map[string]bool{}
	entityTypes := make([]string, 0, 1)

	for _, raw := range notification.Data {
		typeName, ok := raw["type"].(string)
		if ok && !seen[typeName] {
			seen[typeName] = true
			entityTypes = append(entityTypes, typeName)
		}
	}

	return entityTypes
}
