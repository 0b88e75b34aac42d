package service

import (
	"context"
	"errors"
	"testing"

	"telehealth-directory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

type stubAuditLogRepository struct {
	created []entity.AuditLog
	err     error
}

func (r *stubAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *log)
	return nil
}

func (r *stubAuditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	return nil, 0, nil
}

func (r *stubAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	return nil, nil
}

func TestRecordCreatesEntry(t *testing.T) {
	repo := &stubAuditLogRepository{}
	svc := NewAuditService(newDryRunDB(t), repo)

	err := svc.Record(context.Background(), "patient-1", entity.AuditActionCallJoin, entity.JSON{"room_id": "room-9"})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "patient-1", repo.created[0].Actor)
	assert.Equal(t, entity.AuditActionCallJoin, repo.created[0].Action)
	assert.Equal(t, "room-9", repo.created[0].Metadata["room_id"])
}

func TestRecordWrapsRepositoryError(t *testing.T) {
	dbErr := errors.New("connection refused")
	svc := NewAuditService(newDryRunDB(t), &stubAuditLogRepository{err: dbErr})

	err := svc.Record(context.Background(), "admin@clinic.example", entity.AuditActionAdminLogin, nil)

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), entity.AuditActionAdminLogin)
}

func TestNoopAuditServiceDiscards(t *testing.T) {
	assert.NoError(t, NewNoopAuditService().Record(context.Background(), "x", "y", nil))
}
