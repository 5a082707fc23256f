package converter

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		Specialty:       doctor.Specialty,
		Experience:      doctor.Experience,
		Education:       doctor.Education,
		Bio:             doctor.Bio,
		ConsultationFee: doctor.ConsultationFee,
		Location:        doctor.Location,
		Languages:       doctor.Languages,
		PhotoPath:       doctor.PhotoPath,
		Gender:          doctor.Gender,
		AverageRating:   doctor.AverageRating,
		CreatedAt:       doctor.CreatedAt,
		UpdatedAt:       doctor.UpdatedAt,
	}

	if doctor.User.ID != uuid.Nil {
		response.Name = doctor.User.Name
		response.Email = doctor.User.Email
	}

	return response
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
