package converter

import (
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
)

// AdminSessionToResponse converts an AdminSession to AdminResponse DTO
func AdminSessionToResponse(session *entity.AdminSession) *dto.AdminResponse {
	if session == nil {
		return nil
	}

	return &dto.AdminResponse{
		Email:   session.Email,
		Name:    session.Name,
		LoginAt: session.LoginAt,
	}
}
