package repository

import (
	"context"

	"telehealth-directory/internal/domain/entity"
)

// DoctorDirectoryRepository reads the remote doctor directory. FetchAll
// returns every parsed record, approved or not; callers filter.
type DoctorDirectoryRepository interface {
	FetchAll(ctx context.Context) ([]entity.Doctor, error)
}
