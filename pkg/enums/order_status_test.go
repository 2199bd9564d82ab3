package enums

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusRefunded, true},
		{OrderStatusRefunded, OrderStatusRefunded, false},
		{OrderStatusRefunded, OrderStatusPending, false},
		{OrderStatus("bogus"), OrderStatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestOrderStatusCancellableAndTerminal(t *testing.T) {
	for _, s := range OrderStatuses() {
		wantCancel := s == OrderStatusPending || s == OrderStatusProcessing
		if s.IsCancellable() != wantCancel {
			t.Fatalf("%s cancellable mismatch", s)
		}
		wantTerminal := s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
		if s.IsTerminal() != wantTerminal {
			t.Fatalf("%s terminal mismatch", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("shipped")
	if err != nil || got != OrderStatusShipped {
		t.Fatalf("unexpected parse result %q %v", got, err)
	}
	if _, err := ParseOrderStatus("SHIPPED"); err == nil {
		t.Fatal("expected case-sensitive parse to fail")
	}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := map[OrderStatus]PaymentStatus{
		OrderStatusPending:    PaymentStatusUnpaid,
		OrderStatusProcessing: PaymentStatusUnpaid,
		OrderStatusShipped:    PaymentStatusUnpaid,
		OrderStatusDelivered:  PaymentStatusPaid,
		OrderStatusCancelled:  PaymentStatusVoid,
		OrderStatusRefunded:   PaymentStatusRefunded,
	}
	for status, want := range tests {
		if got := PaymentStatusFor(status); got != want {
			t.Fatalf("%s: expected %s got %s", status, want, got)
		}
	}
}

func TestOutboxEventAggregates(t *testing.T) {
	for _, e := range []OutboxEventType{EventOrderCreated, EventOrderStatusChanged} {
		if !e.IsValid() || e.Aggregate() != AggregateOrder {
			t.Fatalf("%s: expected order aggregate, got %q", e, e.Aggregate())
		}
	}
	if OutboxEventType("order_exploded").Aggregate() != "" {
		t.Fatal("unknown event should have no aggregate")
	}
	if OutboxAggregateType("invoice").IsValid() {
		t.Fatal("invoice is not an aggregate")
	}
	if _, err := ParseOutboxEventType("order_created"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ParseOutboxEventType("nope"); err == nil {
		t.Fatal("expected parse error")
	}
}
