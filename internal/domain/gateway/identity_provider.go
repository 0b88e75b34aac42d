package gateway

import (
	"context"

	"telehealth-directory/internal/domain/entity"
)

// IdentityProvider verifies an account credential issued by an external
// identity service.
type IdentityProvider interface {
	Verify(ctx context.Context, credential string) (*entity.Identity, error)
}
