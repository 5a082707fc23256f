package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the single lifecycle state of an appointment request.
// Cancellation is only reachable from approved.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved,
		AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// ConsultationType constants.
const (
	ConsultationOnline  = "online"
	ConsultationOffline = "offline"
)

// Appointment is the aggregate root joining a patient, a doctor and a slot
// tuple (doctor_id, appointment_date, time_slot_id).
// Invariant: per slot tuple at most one row may hold status=approved.
type Appointment struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_slot_tuple" json:"doctor_id"`
	PatientID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentDate  time.Time         `gorm:"type:date;not null;index:idx_appointments_slot_tuple" json:"appointment_date"`
	TimeSlotID       int               `gorm:"not null;index:idx_appointments_slot_tuple" json:"time_slot_id"`
	ConsultationType string            `gorm:"type:varchar(10);not null" json:"consultation_type"`
	PatientAge       int               `gorm:"not null" json:"patient_age"`
	PatientGender    string            `gorm:"type:varchar(10);not null" json:"patient_gender"`
	HealthInfo       string            `gorm:"type:text" json:"health_info,omitempty"`
	Status           AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsReviewed       bool              `gorm:"not null;default:false" json:"is_reviewed"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor   Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient  User     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	TimeSlot TimeSlot `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment is still awaiting a decision.
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsApproved checks if the appointment holds its slot.
func (a *Appointment) IsApproved() bool {
	return a.Status == AppointmentStatusApproved
}

// CanReview reports whether a review may still be submitted.
func (a *Appointment) CanReview() bool {
	return a.Status == AppointmentStatusApproved && !a.IsReviewed
}
