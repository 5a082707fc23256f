package repository

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	ExistsByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (bool, error)
	FindAll(db *gorm.DB, offset, limit int) ([]entity.Review, int64, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, offset, limit int) ([]entity.Review, int64, error)
	CountByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
