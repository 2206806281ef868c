package subscriptions

// Subscription is an NGSI-v2 subscription document, covering the parts of
// the subscription payload needed to register notification routing with a
// context broker. Delivery of notifications is the broker's business, this
// library only registers and lists subscriptions.
type Subscription struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description,omitempty"`
	Subject     *Subject `json:"subject,omitempty"`

	Notification *NotificationParams `json:"notification,omitempty"`

	Throttling int    `json:"throttling,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Subject selects the entities and attributes a subscription covers
type Subject struct {
	Entities  []EntityMatcher `json:"entities"`
	Condition *Condition      `json:"condition,omitempty"`
}

// EntityMatcher matches entities by id, id pattern or type
type EntityMatcher struct {
	ID        string `json:"id,omitempty"`
	IDPattern string `json:"idPattern,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Condition narrows a subscription to changes of the named attributes
type Condition struct {
	Attrs []string `json:"attrs,omitempty"`
}

// NotificationParams describes where and how notifications are delivered
type NotificationParams struct {
	HTTP  *HTTPEndpoint `json:"http,omitempty"`
	Attrs []string      `json:"attrs,omitempty"`
}

type HTTPEndpoint struct {
	URL string `json:"url"`
}

// NewQuantumLeapSubscription creates the catch all subscription that makes
// a broker notify a QuantumLeap style time series service of changes to
// any entity.
func NewQuantumLeapSubscription(notifyURL string) *Subscription {
	return &Subscription{
		Description: "Notify QuantumLeap of changes to any entity.",
		Subject: &Subject{
			Entities: []EntityMatcher{{IDPattern: ".*"}},
		},
		Notification: &NotificationParams{
			HTTP: &HTTPEndpoint{URL: notifyURL},
		},
	}
}
