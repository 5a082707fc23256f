package repository

import (
	"errors"
	"time"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	domainRepo "github.com/gobinddhanjal12/medcare-app-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient").Preload("TimeSlot").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// LockSlotTuple locks the conflict set for a slot tuple. Concurrent decide
// transactions on the same tuple block here until the first one commits, so
// the caller's approved-existence check and status write are mutually
// exclusive per tuple.
func (r *appointmentRepository) LockSlotTuple(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot_id = ?", doctorID, date, timeSlotID).
		Order("created_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindPendingSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ? AND appointment_date = ? AND time_slot_id = ? AND id != ? AND status = ?",
			doctorID, date, timeSlotID, excludeID, entity.AppointmentStatusPending).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CascadeRejectSiblings is a single bulk conditional update, not a
// fetch-then-loop: the pending predicate keeps the cascade itself atomic.
func (r *appointmentRepository) CascadeRejectSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot_id = ? AND id != ? AND status = ?",
			doctorID, date, timeSlotID, excludeID, entity.AppointmentStatusPending).
		Update("status", entity.AppointmentStatusRejected)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) SetReviewed(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("is_reviewed", true).Error
}

func (r *appointmentRepository) FindBookedSlotIDs(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]int, error) {
	var slotIDs []int
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status = ?",
			doctorID, date, entity.AppointmentStatusApproved).
		Pluck("time_slot_id", &slotIDs).Error
	if err != nil {
		return nil, err
	}
	return slotIDs, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status entity.AppointmentStatus, offset, limit int) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{}).Where("patient_id = ?", patientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	err := query.Preload("Doctor.User").Preload("TimeSlot").
		Order("appointment_date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindPending(db *gorm.DB, offset, limit int) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{}).
		Where("status = ?", entity.AppointmentStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	err := query.Preload("Doctor.User").Preload("Patient").Preload("TimeSlot").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}
