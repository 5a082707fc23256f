package repository

import (
	"time"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByIDForUpdate loads the appointment under a row-level lock so the
	// caller's transaction is the only one mutating it (review singularity guard).
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// LockSlotTuple takes row-level locks (SELECT ... FOR UPDATE) on every
	// appointment sharing the slot tuple and returns them. Callers must hold
	// an open transaction; the locks serialize concurrent decisions on the
	// same tuple so the approved-existence check cannot be subject to write skew.
	LockSlotTuple(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int) ([]entity.Appointment, error)
	// FindPendingSiblings returns the still-pending competitors of the given
	// appointment on the same slot tuple, with patient preloaded for notification.
	FindPendingSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) ([]entity.Appointment, error)
	// CascadeRejectSiblings flips every still-pending competitor on the slot
	// tuple to rejected in a single bulk UPDATE. Returns affected rows.
	CascadeRejectSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) (int64, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error
	SetReviewed(db *gorm.DB, id uuid.UUID) error
	// FindBookedSlotIDs returns the time_slot_id set held (status=approved)
	// for the doctor on the given date.
	FindBookedSlotIDs(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]int, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID, status entity.AppointmentStatus, offset, limit int) ([]entity.Appointment, int64, error)
	FindPending(db *gorm.DB, offset, limit int) ([]entity.Appointment, int64, error)
}
