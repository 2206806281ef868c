package simulator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestNewRequiresABrokerEndpoint(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), Config{})

	is.True(err != nil) // should have returned an error
}

func TestNewRequiresAtLeastOnePool(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), Config{ContextBroker: "http://lolcathost:1026"})

	is.True(err != nil) // should have returned an error
}

func TestNewWithDefaultTestConfig(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), withTestConfig("http://lolcathost:1026", ""))

	is.NoErr(err)
}

func TestNewRejectsUnknownAttributeKinds(t *testing.T) {
	is := is.New(t)

	cfg := withTestConfig("http://lolcathost:1026", "")
	cfg.Pools[0].Attributes[0].Kind = "fruit"

	_, err := New(context.Background(), cfg)

	is.True(err != nil) // should have returned an error
}

func TestNewRejectsTextAttributesWithoutChoices(t *testing.T) {
	is := is.New(t)

	cfg := withTestConfig("http://lolcathost:1026", "")
	cfg.Pools[0].Attributes = []AttributeSpec{{Name: "direction", Kind: "text"}}

	_, err := New(context.Background(), cfg)

	is.True(err != nil) // should have returned an error
}

func TestStartRegistersSubscriptionAndSendsReadings(t *testing.T) {
	is := is.New(t)

	subscriptionCount := 0
	batchCount := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/subscriptions":
			subscriptionCount++
			w.WriteHeader(http.StatusCreated)
		case "/v2/op/update":
			batchCount++
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	app, err := New(context.Background(), withTestConfig(ts.URL, ts.URL+"/v2/notify"))
	is.NoErr(err)

	err = app.Start(context.Background())
	is.NoErr(err)

	is.Equal(subscriptionCount, 1) // should have registered a single subscription
	is.Equal(batchCount, 2)        // should have sent one batch per sample
}

func TestStartStopsWhenTheContextEnds(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cfg := withTestConfig(ts.URL, "")
	cfg.Pools[0].Samples = 0 // uncapped

	app, err := New(context.Background(), cfg)
	is.NoErr(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = app.Start(ctx)
	is.NoErr(err)
}

func withTestConfig(brokerURL, notifyURL string) Config {
	return Config{
		ContextBroker: brokerURL,
		Tenant:        "testtenant",
		Notification:  NotificationInfo{Endpoint: notifyURL},
		Pools: []DevicePoolConfig{
			{
				EntityType: "WeatherObserved",
				Devices:    3,
				Interval:   0.001,
				Samples:    2,
				Attributes: []AttributeSpec{
					{Name: "temperature", Kind: "number", Base: 20},
					{Name: "windDirection", Kind: "text", Choices: []string{"N", "E", "S", "W"}},
				},
			},
		},
	}
}
