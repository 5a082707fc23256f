package usecase

import (
	"context"
	"errors"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/converter"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/repository"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorUsecase interface {
	Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Search(ctx context.Context, req *dto.DoctorSearchRequest) ([]dto.DoctorResponse, int64, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	reviewRepo   repository.ReviewRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		reviewRepo:   reviewRepo,
		auditService: auditService,
	}
}

// Create onboards a doctor: one transaction inserts the auth account and the
// profile so a failure in either leaves no orphan. Password is optional; when
// omitted the account holds a nil hash and cannot password-login.
func (u *doctorUsecase) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var password *string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		s := string(hashed)
		password = &s
	}

	user := &entity.User{
		Email:    req.Email,
		Password: password,
		Name:     req.Name,
		Role:     entity.RoleDoctor,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor user: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		UserID:          user.ID,
		Specialty:       req.Specialty,
		Experience:      req.Experience,
		Education:       req.Education,
		Bio:             req.Bio,
		ConsultationFee: req.ConsultationFee,
		Location:        req.Location,
		Languages:       entity.StringList(req.Languages),
		PhotoPath:       req.PhotoPath,
		Gender:          req.Gender,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &adminID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), map[string]interface{}{
		"user_id":   user.ID,
		"email":     user.Email,
		"specialty": doctor.Specialty,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	doctor.User = *user
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := converter.DoctorToResponse(doctor)

	total, err := u.reviewRepo.CountByDoctorID(db, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to count reviews for doctor: %+v", err)
		return nil, err
	}
	response.TotalReviews = &total

	return response, nil
}

func (u *doctorUsecase) Search(ctx context.Context, req *dto.DoctorSearchRequest) ([]dto.DoctorResponse, int64, error) {
	filter := &entity.DoctorFilter{
		Name:          req.Name,
		Gender:        req.Gender,
		Specialty:     req.Specialty,
		MinExperience: req.Experience,
		MaxExperience: req.MaxExperience,
		MinRating:     req.Rating,
	}

	doctors, total, err := u.doctorRepo.Search(u.db.WithContext(ctx), filter, offsetFor(req.Page, req.Limit), req.Limit)
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorsToResponses(doctors), total, nil
}
