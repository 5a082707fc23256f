package repository

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	domainRepo "github.com/gobinddhanjal12/medcare-app-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Create(review).Error
}

func (r *reviewRepository) ExistsByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.Review{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) FindAll(db *gorm.DB, offset, limit int) ([]entity.Review, int64, error) {
	var total int64
	if err := db.Model(&entity.Review{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := db.Preload("Patient").Preload("Doctor.User").Preload("Appointment.TimeSlot").
		Order("rating DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, offset, limit int) ([]entity.Review, int64, error) {
	query := db.Model(&entity.Review{}).Where("doctor_id = ?", doctorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := query.Preload("Patient").Preload("Appointment.TimeSlot").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) CountByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Review{}).
		Where("doctor_id = ?", doctorID).
		Count(&count).Error
	return count, err
}
