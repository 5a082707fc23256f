package converter

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// ReviewToResponse converts a Review entity to ReviewResponse DTO
func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	response := &dto.ReviewResponse{
		ID:            review.ID,
		DoctorID:      review.DoctorID,
		PatientID:     review.PatientID,
		AppointmentID: review.AppointmentID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}

	if review.Patient.ID != uuid.Nil {
		response.PatientName = review.Patient.Name
	}
	if review.Doctor.ID != uuid.Nil && review.Doctor.User.ID != uuid.Nil {
		response.DoctorName = review.Doctor.User.Name
	}
	if review.Appointment.ID != uuid.Nil {
		response.AppointmentDate = review.Appointment.AppointmentDate.Format(dateLayout)
	}

	return response
}

// ReviewsToResponses converts a slice of Review entities to DTOs
func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i, review := range reviews {
		resp := ReviewToResponse(&review)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
