package enums

import "fmt"

// OutboxAggregateType names the entity an outbox row belongs to.
type OutboxAggregateType string

// OutboxEventType names what happened to the aggregate.
type OutboxEventType string

const (
	AggregateOrder OutboxAggregateType = "order"

	EventOrderCreated       OutboxEventType = "order_created"
	EventOrderStatusChanged OutboxEventType = "order_status_changed"
)

// eventAggregates pins every event type to the aggregate that emits it.
var eventAggregates = map[OutboxEventType]OutboxAggregateType{
	EventOrderCreated:       AggregateOrder,
	EventOrderStatusChanged: AggregateOrder,
}

func (a OutboxAggregateType) IsValid() bool {
	for _, owner := range eventAggregates {
		if owner == a {
			return true
		}
	}
	return false
}

func (e OutboxEventType) IsValid() bool {
	_, ok := eventAggregates[e]
	return ok
}

// Aggregate returns the aggregate type that owns e, or "" for unknown events.
func (e OutboxEventType) Aggregate() OutboxAggregateType {
	return eventAggregates[e]
}

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	e := OutboxEventType(value)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid outbox event type %q", value)
	}
	return e, nil
}
