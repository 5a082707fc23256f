package converter

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               appointment.ID,
		DoctorID:         appointment.DoctorID,
		PatientID:        appointment.PatientID,
		AppointmentDate:  appointment.AppointmentDate.Format(dateLayout),
		ConsultationType: appointment.ConsultationType,
		PatientAge:       appointment.PatientAge,
		PatientGender:    appointment.PatientGender,
		HealthInfo:       appointment.HealthInfo,
		Status:           string(appointment.Status),
		IsReviewed:       appointment.IsReviewed,
		CanReview:        appointment.CanReview(),
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}

	if appointment.Doctor.ID != uuid.Nil {
		response.Specialty = appointment.Doctor.Specialty
		if appointment.Doctor.User.ID != uuid.Nil {
			response.DoctorName = appointment.Doctor.User.Name
		}
	}
	if appointment.Patient.ID != uuid.Nil {
		response.PatientName = appointment.Patient.Name
	}
	if appointment.TimeSlot.ID != 0 {
		response.TimeSlot = &dto.TimeSlotResponse{
			ID:        appointment.TimeSlot.ID,
			StartTime: appointment.TimeSlot.StartTime,
			EndTime:   appointment.TimeSlot.EndTime,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// TimeSlotsToResponses converts slot catalog entries to DTOs
func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.TimeSlotResponse{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
	}
	return responses
}
