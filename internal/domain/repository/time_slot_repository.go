package repository

import (
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	FindAll(db *gorm.DB) ([]entity.TimeSlot, error)
	FindByID(db *gorm.DB, id int) (*entity.TimeSlot, error)
}
