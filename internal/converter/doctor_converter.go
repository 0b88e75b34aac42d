package converter

import (
	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor entity.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		PhotoURL:  doctor.PhotoURL,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		responses[i] = DoctorToResponse(doctor)
	}
	return responses
}

// DirectoryViewToResponse converts a DirectoryView to its DTO
func DirectoryViewToResponse(sessionID string, view entity.DirectoryView) *dto.DirectoryViewResponse {
	doctors := DoctorsToResponses(view.Doctors)
	return &dto.DirectoryViewResponse{
		SessionID:    sessionID,
		Query:        view.Query,
		Active:       view.Active,
		NoMatchFound: view.NoMatchFound,
		Banner:       view.Banner,
		Doctors:      doctors,
		Total:        len(doctors),
	}
}
