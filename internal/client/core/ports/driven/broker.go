package driven

import (
	"context"

	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
)

type IActivityBroker interface {
	PublishActivity(ctx context.Context, event brokerdto.Activity) error
	Close() error
}
