package wait

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/client"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput

func TestUntilStopsWhenTheConditionIsMet(t *testing.T) {
	is := is.New(t)

	calls := 0
	condition := func(ctx context.Context) bool {
		calls++
		return calls == 3
	}

	err := Until(context.Background(), condition, Interval(time.Millisecond))

	is.NoErr(err)
	is.Equal(calls, 3)
}

func TestUntilGivesUpAfterMaxWait(t *testing.T) {
	is := is.New(t)

	never := func(ctx context.Context) bool { return false }

	err := Until(context.Background(), never, Interval(time.Millisecond), MaxWait(5*time.Millisecond))

	is.True(err != nil)
}

func TestForOrion(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`[]`)),
		),
	)
	defer s.Close()

	err := ForOrion(context.Background(), client.NewOrionClient(s.URL()))

	is.NoErr(err)
	is.Equal(s.RequestCount(), 1)
}

func TestForQuantumLeapKeepsPollingWhileTheStoreIsDown(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusInternalServerError),
			response.Body([]byte(`{"error":"Internal","description":"DB is down"}`)),
		),
	)
	defer s.Close()

	err := ForQuantumLeap(context.Background(), client.NewQuantumLeapClient(s.URL()),
		Interval(2*time.Millisecond), MaxWait(20*time.Millisecond),
	)

	is.True(err != nil)
	is.True(s.RequestCount() > 1)
}
