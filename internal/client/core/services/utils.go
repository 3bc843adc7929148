package services

import (
	"context"
	"time"

	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

func requireSession(session driver.ISessionService) error {
	if !session.IsAuthenticated() {
		return myerrors.ErrNotAuthenticated
	}
	return nil
}

func userID(session driver.ISessionService) string {
	if u := session.User(); u != nil {
		return u.ID
	}
	return ""
}

// publish relays an activity event. A relay failure never fails the action
// that caused it.
func publish(ctx context.Context, mylog mylogger.Logger, broker driven.IActivityBroker, event brokerdto.Activity) {
	if broker == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := broker.PublishActivity(ctx, event); err != nil {
		mylog.Action("publish_activity").Warn("activity relay failed", "type", event.Type, "error", err)
	}
}
