package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID         uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate  string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DD
	TimeSlotID       int       `json:"time_slot_id" validate:"required,min=1"`
	ConsultationType string    `json:"consultation_type" validate:"required,oneof=online offline"`
	PatientAge       int       `json:"patient_age" validate:"required,gte=1,lte=120"`
	PatientGender    string    `json:"patient_gender" validate:"required,oneof=male female other"`
	HealthInfo       string    `json:"health_info" validate:"omitempty"`
}

// DecideAppointmentRequest is the admin approval/rejection payload.
type DecideAppointmentRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Response DTOs

type TimeSlotResponse struct {
	ID        int    `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AppointmentResponse struct {
	ID               uuid.UUID         `json:"id"`
	DoctorID         uuid.UUID         `json:"doctor_id"`
	DoctorName       string            `json:"doctor_name,omitempty"`
	Specialty        string            `json:"specialty,omitempty"`
	PatientID        uuid.UUID         `json:"patient_id"`
	PatientName      string            `json:"patient_name,omitempty"`
	AppointmentDate  string            `json:"appointment_date"`
	TimeSlot         *TimeSlotResponse `json:"time_slot,omitempty"`
	ConsultationType string            `json:"consultation_type"`
	PatientAge       int               `json:"patient_age"`
	PatientGender    string            `json:"patient_gender"`
	HealthInfo       string            `json:"health_info,omitempty"`
	Status           string            `json:"status"`
	IsReviewed       bool              `json:"is_reviewed"`
	CanReview        bool              `json:"can_review"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// DecisionResponse reports the outcome of an approval decision, including
// how many competing pending requests were auto-rejected.
type DecisionResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	Cascaded    int64                `json:"cascaded_rejections"`
}
