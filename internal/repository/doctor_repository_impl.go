package repository

import (
	"errors"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	domainRepo "github.com/gobinddhanjal12/medcare-app-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("User").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("User").Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// Search filters the doctor directory. Only doctors whose user account is
// active are listed. The rating filter selects the half-open bucket
// [MinRating, MinRating+1).
func (r *doctorRepository) Search(db *gorm.DB, filter *entity.DoctorFilter, offset, limit int) ([]entity.Doctor, int64, error) {
	query := db.Model(&entity.Doctor{}).
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("users.is_active = ?", true)

	if filter != nil {
		if filter.Name != "" {
			query = query.Where("users.name ILIKE ?", "%"+filter.Name+"%")
		}
		if filter.Gender != "" {
			query = query.Where("doctors.gender = ?", filter.Gender)
		}
		if filter.Specialty != "" {
			query = query.Where("doctors.specialty ILIKE ?", "%"+filter.Specialty+"%")
		}
		if filter.MinExperience != nil {
			query = query.Where("doctors.experience >= ?", *filter.MinExperience)
		}
		if filter.MaxExperience != nil {
			query = query.Where("doctors.experience <= ?", *filter.MaxExperience)
		}
		if filter.MinRating != nil {
			query = query.Where("doctors.average_rating >= ? AND doctors.average_rating < ?",
				*filter.MinRating, *filter.MinRating+1)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var doctors []entity.Doctor
	err := query.Preload("User").
		Order("doctors.experience DESC").
		Offset(offset).
		Limit(limit).
		Find(&doctors).Error
	if err != nil {
		return nil, 0, err
	}
	return doctors, total, nil
}

func (r *doctorRepository) RecalculateAverageRating(db *gorm.DB, doctorID uuid.UUID) error {
	return db.Exec(`
		UPDATE doctors
		SET average_rating = COALESCE((
			SELECT ROUND(AVG(rating)::numeric, 2)
			FROM reviews
			WHERE doctor_id = ?
		), 0)
		WHERE id = ?`, doctorID, doctorID).Error
}
