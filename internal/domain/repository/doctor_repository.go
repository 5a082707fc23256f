package repository

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	Search(db *gorm.DB, filter *entity.DoctorFilter, offset, limit int) ([]entity.Doctor, int64, error)
	// RecalculateAverageRating rewrites the materialized average_rating from
	// the review table. Must run inside the same transaction as the review insert.
	RecalculateAverageRating(db *gorm.DB, doctorID uuid.UUID) error
}
