package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const (
	TraceAttributeEntityID      string = "entity-id"
	TraceAttributeEntityType    string = "entity-type"
	TraceAttributeFiwareService string = "fiware-service"
)

var tracer = otel.Tracer("ngsi-v2-client")

const defaultTimeout time.Duration = 60 * time.Second

type serviceClient struct {
	baseURL string
	fiware  FiwareContext
	timeout time.Duration
	debug   bool
}

func Debug(enabled string) func(*serviceClient) {
	return func(c *serviceClient) {
		c.debug = (enabled == "true")
	}
}

// Context scopes all requests from this client to a FIWARE tenant
func Context(fiware FiwareContext) func(*serviceClient) {
	return func(c *serviceClient) {
		c.fiware = fiware
	}
}

func Timeout(timeout time.Duration) func(*serviceClient) {
	return func(c *serviceClient) {
		c.timeout = timeout
	}
}

func newServiceClient(serviceURL string, options ...func(*serviceClient)) serviceClient {
	c := serviceClient{
		baseURL: strings.TrimSuffix(serviceURL, "/"),
		timeout: defaultTimeout,
	}

	for _, option := range options {
		option(&c)
	}

	return c
}

func (c serviceClient) endpoint(relPath string, params []string) string {
	endpoint := c.baseURL + relPath

	if len(params) > 0 {
		endpoint += "?" + strings.Join(params, "&")
	}

	return endpoint
}

func collectParams(parameters []RequestDecoratorFunc, fixed ...string) []string {
	params := make([]string, 0, len(parameters)+len(fixed))
	params = append(params, fixed...)

	for _, rdf := range parameters {
		params = rdf(params)
	}

	return params
}

func (c serviceClient) callService(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   c.timeout,
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	for header, headerValues := range c.fiware.headers() {
		for _, val := range headerValues {
			req.Header.Add(header, val)
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			reqbytes, _ := httputil.DumpRequest(req, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			log := logging.GetFromContext(ctx)
			log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
		}
	}

	return resp, respBody, nil
}
