package converter

import (
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
)

func CallSessionToResponse(session *entity.CallSession) *dto.CallSessionResponse {
	if session == nil {
		return nil
	}

	return &dto.CallSessionResponse{
		CallID:    session.CallID,
		Provider:  session.Provider,
		AppID:     session.AppID,
		RoomID:    session.RoomID,
		UserID:    session.UserID,
		UserName:  session.UserName,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
