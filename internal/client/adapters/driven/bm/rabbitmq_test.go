package bm

import (
	"context"
	"testing"

	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/config"
	"afrikar/internal/mylogger"
)

func TestNewWithoutHostIsNoop(t *testing.T) {
	relay, err := New(config.RabbitMqconfig{Port: 5672}, mylogger.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := relay.(Noop); !ok {
		t.Fatalf("relay = %T, want Noop", relay)
	}
	if err := relay.PublishActivity(context.Background(), brokerdto.Activity{Type: brokerdto.ActivityLogin}); err != nil {
		t.Errorf("Noop publish: %v", err)
	}
	if err := relay.Close(); err != nil {
		t.Errorf("Noop close: %v", err)
	}
}

func TestRoutingKey(t *testing.T) {
	got := RoutingKey(brokerdto.Activity{Type: brokerdto.ActivityBookingCreated})
	if got != "activity.booking.created" {
		t.Errorf("RoutingKey = %q", got)
	}
}
