package gateway

import (
	"context"

	"telehealth-directory/internal/domain/entity"
)

// VideoCallProvider issues room credentials for the client-side call SDK.
type VideoCallProvider interface {
	Name() string
	Join(ctx context.Context, req entity.CallJoin) (*entity.CallSession, error)
}
