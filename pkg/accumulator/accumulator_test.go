package accumulator

import (
	"testing"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
	"github.com/matryer/is"
)

func TestRecordIncreasesTheNotificationCount(t *testing.T) {
	is := is.New(t)
	acc := New()

	acc.Record(notificationWithEntityCount("sub-1", 1))
	acc.Record(notificationWithEntityCount("sub-1", 1))

	is.Equal(acc.Count(), 2)
}

func TestEntityCountSumsOverAllNotifications(t *testing.T) {
	is := is.New(t)
	acc := New()

	acc.Record(notificationWithEntityCount("sub-1", 2))
	acc.Record(notificationWithEntityCount("sub-2", 3))

	is.Equal(acc.EntityCount(), 5)
}

func TestNotificationsAreReturnedInArrivalOrder(t *testing.T) {
	is := is.New(t)
	acc := New()

	acc.Record(notificationWithEntityCount("first", 1))
	acc.Record(notificationWithEntityCount("second", 1))

	notifications := acc.Notifications()
	is.Equal(len(notifications), 2)
	is.Equal(notifications[0].SubscriptionID, "first")
	is.Equal(notifications[1].SubscriptionID, "second")
}

func TestNotificationsReturnsACopyThatSurvivesClear(t *testing.T) {
	is := is.New(t)
	acc := New()

	acc.Record(notificationWithEntityCount("sub-1", 1))
	snapshot := acc.Notifications()

	acc.Clear()

	is.Equal(acc.Count(), 0)
	is.Equal(len(snapshot), 1) // the snapshot must not be affected by the cleared log
}

func TestAnEmptyAccumulatorCountsToZero(t *testing.T) {
	is := is.New(t)
	acc := New()

	is.Equal(acc.Count(), 0)
	is.Equal(acc.EntityCount(), 0)
	is.Equal(len(acc.Notifications()), 0)
}

func notificationWithEntityCount(subscriptionID string, entityCount int) subscriptions.EntityUpdateNotification {
	n := subscriptions.EntityUpdateNotification{
		SubscriptionID: subscriptionID,
		Data:           make([]map[string]any, 0, entityCount),
	}

	for i := 0; i < entityCount; i++ {
		n.Data = append(n.Data, map[string]any{
			"id":   "urn:ngsi-ld:Bot:1",
			"type": "Bot",
		})
	}

	return n
}
