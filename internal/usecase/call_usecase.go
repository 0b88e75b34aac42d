package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"telehealth-directory/internal/converter"
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/service"
	"telehealth-directory/pkg/metrics"

	"github.com/sirupsen/logrus"
)

var (
	ErrCallUnavailable = errors.New("video calling is not available")
	ErrInvalidCall     = errors.New("invalid call request")
)

type CallUsecase interface {
	JoinCall(ctx context.Context, req *dto.JoinCallRequest) (*dto.CallSessionResponse, error)
	EndCall(ctx context.Context, callID string, req *dto.EndCallRequest) error
}

type callUsecase struct {
	log          *logrus.Logger
	provider     gateway.VideoCallProvider
	auditService service.AuditService
	metrics      *metrics.Metrics
}

func NewCallUsecase(
	log *logrus.Logger,
	provider gateway.VideoCallProvider,
	auditService service.AuditService,
	m *metrics.Metrics,
) CallUsecase {
	return &callUsecase{
		log:          log,
		provider:     provider,
		auditService: auditService,
		metrics:      m,
	}
}

func (u *callUsecase) JoinCall(ctx context.Context, req *dto.JoinCallRequest) (*dto.CallSessionResponse, error) {
	join := entity.CallJoin{
		RoomID:   strings.TrimSpace(req.RoomID),
		UserID:   strings.TrimSpace(req.UserID),
		UserName: strings.TrimSpace(req.UserName),
	}
	if join.RoomID == "" || join.UserID == "" || join.UserName == "" {
		return nil, ErrInvalidCall
	}

	session, err := u.provider.Join(ctx, join)
	if err != nil {
		u.log.Warnf("Failed to join call with %s provider: %+v", u.provider.Name(), err)
		return nil, ErrCallUnavailable
	}

	u.metrics.ObserveCallJoined()

	metadata := entity.JSON{
		"call_id":  session.CallID,
		"room_id":  session.RoomID,
		"provider": session.Provider,
	}
	if err := u.auditService.Record(ctx, session.UserID, entity.AuditActionCallJoin, metadata); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.CallSessionToResponse(session), nil
}

func (u *callUsecase) EndCall(ctx context.Context, callID string, req *dto.EndCallRequest) error {
	if req.DurationSeconds < 0 || req.DurationSeconds > int64(entity.MaxCallDuration/time.Second) {
		return ErrInvalidCall
	}

	end := entity.CallEnd{
		CallID:   callID,
		Reason:   strings.TrimSpace(req.Reason),
		Duration: time.Duration(req.DurationSeconds) * time.Second,
	}

	u.metrics.ObserveCallEnded(end.Reason)

	u.log.WithFields(logrus.Fields{
		"call_id":  end.CallID,
		"reason":   end.Reason,
		"duration": end.Duration.String(),
	}).Info("Call ended")

	metadata := entity.JSON{
		"call_id":          end.CallID,
		"reason":           end.Reason,
		"duration_seconds": int64(end.Duration / time.Second),
	}
	if err := u.auditService.Record(ctx, callID, entity.AuditActionCallEnd, metadata); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}
