package service

import (
	"context"
	"fmt"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/repository"

	"gorm.io/gorm"
)

type AuditService interface {
	Record(ctx context.Context, actor string, action string, metadata entity.JSON) error
}

type auditService struct {
	db        *gorm.DB
	auditRepo repository.AuditLogRepository
}

func NewAuditService(db *gorm.DB, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		auditRepo: auditRepo,
	}
}

// Record writes one audit trail entry. Failures are returned for the caller to log.
func (s *auditService) Record(ctx context.Context, actor string, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(s.db.WithContext(ctx), auditLog); err != nil {
		return fmt.Errorf("record %s: %w", action, err)
	}

	return nil
}

type noopAuditService struct{}

// NewNoopAuditService discards every entry. Used when no database is configured.
func NewNoopAuditService() AuditService {
	return noopAuditService{}
}

func (noopAuditService) Record(ctx context.Context, actor string, action string, metadata entity.JSON) error {
	return nil
}
