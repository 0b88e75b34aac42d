package usecase

import (
	"context"
	"errors"
	"time"

	"telehealth-directory/internal/converter"
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/domain/repository"
	"telehealth-directory/internal/service"
	"telehealth-directory/pkg/metrics"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("directory session not found")
)

type DirectorySessionUsecase interface {
	OpenSession(ctx context.Context) (*dto.DirectoryViewResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error)
	RefreshSession(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error)
	Search(ctx context.Context, sessionID string, req *dto.DirectorySearchRequest) (*dto.DirectoryViewResponse, error)
	ClearSearch(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error)
	CloseSession(ctx context.Context, sessionID string) error
}

type directorySessionUsecase struct {
	log          *logrus.Logger
	directory    repository.DoctorDirectoryRepository
	classifier   gateway.SymptomClassifier
	auditService service.AuditService
	metrics      *metrics.Metrics
	sessions     *cache.Cache
}

func NewDirectorySessionUsecase(
	log *logrus.Logger,
	directory repository.DoctorDirectoryRepository,
	classifier gateway.SymptomClassifier,
	auditService service.AuditService,
	m *metrics.Metrics,
	ttl time.Duration,
	cleanupInterval time.Duration,
) DirectorySessionUsecase {
	u := &directorySessionUsecase{
		log:          log,
		directory:    directory,
		classifier:   classifier,
		auditService: auditService,
		metrics:      m,
		sessions:     cache.New(ttl, cleanupInterval),
	}

	// Expired or closed sessions stop their in-flight calls
	u.sessions.OnEvicted(func(id string, v interface{}) {
		if coordinator, ok := v.(*DirectorySearchCoordinator); ok {
			coordinator.Close()
		}
		u.metrics.SessionClosed()
	})

	return u
}

func (u *directorySessionUsecase) OpenSession(ctx context.Context) (*dto.DirectoryViewResponse, error) {
	sessionID := uuid.New().String()
	coordinator := NewDirectorySearchCoordinator(u.directory, u.classifier, u.log, u.metrics)
	u.sessions.SetDefault(sessionID, coordinator)
	u.metrics.SessionOpened()

	view := coordinator.LoadDirectory(ctx)
	return converter.DirectoryViewToResponse(sessionID, view), nil
}

func (u *directorySessionUsecase) GetSession(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error) {
	coordinator, err := u.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return converter.DirectoryViewToResponse(sessionID, coordinator.View()), nil
}

func (u *directorySessionUsecase) RefreshSession(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error) {
	coordinator, err := u.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	view := coordinator.LoadDirectory(ctx)
	return converter.DirectoryViewToResponse(sessionID, view), nil
}

func (u *directorySessionUsecase) Search(ctx context.Context, sessionID string, req *dto.DirectorySearchRequest) (*dto.DirectoryViewResponse, error) {
	coordinator, err := u.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view, outcome := coordinator.Submit(ctx, req.Query)
	if !outcome.Cleared {
		u.recordSearch(ctx, sessionID, outcome)
	}
	return converter.DirectoryViewToResponse(sessionID, view), nil
}

func (u *directorySessionUsecase) ClearSearch(ctx context.Context, sessionID string) (*dto.DirectoryViewResponse, error) {
	coordinator, err := u.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return converter.DirectoryViewToResponse(sessionID, coordinator.Clear()), nil
}

func (u *directorySessionUsecase) CloseSession(ctx context.Context, sessionID string) error {
	if _, found := u.sessions.Get(sessionID); !found {
		return ErrSessionNotFound
	}
	u.sessions.Delete(sessionID)
	return nil
}

// lookup returns the session's coordinator and extends its idle deadline.
func (u *directorySessionUsecase) lookup(sessionID string) (*DirectorySearchCoordinator, error) {
	v, found := u.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	coordinator := v.(*DirectorySearchCoordinator)
	// Replace fails when the session was closed or expired after Get.
	if err := u.sessions.Replace(sessionID, coordinator, cache.DefaultExpiration); err != nil {
		return nil, ErrSessionNotFound
	}
	return coordinator, nil
}

func (u *directorySessionUsecase) recordSearch(ctx context.Context, sessionID string, outcome SearchOutcome) {
	metadata := entity.JSON{
		"query":        outcome.Query,
		"specialty":    outcome.Specialty,
		"result_count": outcome.ResultCount,
		"no_match":     outcome.NoMatch,
		"superseded":   outcome.Superseded,
	}
	if err := u.auditService.Record(ctx, sessionID, entity.AuditActionDirectorySearch, metadata); err != nil {
		u.log.Warnf("Failed to record directory search: %+v", err)
	}
}
