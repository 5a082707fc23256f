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
	"gorm.io/gorm"
)

var (
	ErrReviewExists        = errors.New("appointment has already been reviewed")
	ErrReviewNotAllowed    = errors.New("only approved appointments can be reviewed")
	ErrReviewNotOwnPatient = errors.New("appointment does not belong to this patient")
)

type ReviewUsecase interface {
	Submit(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListAll(ctx context.Context, page, limit int) ([]dto.ReviewResponse, int64, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, page, limit int) ([]dto.ReviewResponse, int64, error)
}

type reviewUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reviewRepo      repository.ReviewRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:              db,
		log:             log,
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
	}
}

// Submit records one review per approved appointment and recomputes the
// doctor's materialized average rating in the same transaction. The
// appointment row is locked so two submissions for the same appointment
// serialize, and the loser hits the duplicate check.
func (u *reviewUsecase) Submit(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByIDForUpdate(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrReviewNotOwnPatient
	}
	if !appointment.IsApproved() {
		return nil, ErrReviewNotAllowed
	}

	exists, err := u.reviewRepo.ExistsByAppointmentID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to check existing review: %+v", err)
		return nil, err
	}
	if exists || appointment.IsReviewed {
		return nil, ErrReviewExists
	}

	review := &entity.Review{
		DoctorID:      appointment.DoctorID,
		PatientID:     patientID,
		AppointmentID: appointment.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	if err := u.reviewRepo.Create(tx, review); err != nil {
		if isDuplicateKeyError(err, "appointment") {
			return nil, ErrReviewExists
		}
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	if err := u.doctorRepo.RecalculateAverageRating(tx, appointment.DoctorID); err != nil {
		u.log.Warnf("Failed to recalculate average rating: %+v", err)
		return nil, err
	}

	if err := u.appointmentRepo.SetReviewed(tx, appointment.ID); err != nil {
		u.log.Warnf("Failed to mark appointment reviewed: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionReviewCreate, "review", review.ID.String(), map[string]interface{}{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"rating":         req.Rating,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ReviewToResponse(review), nil
}

func (u *reviewUsecase) ListAll(ctx context.Context, page, limit int) ([]dto.ReviewResponse, int64, error) {
	reviews, total, err := u.reviewRepo.FindAll(u.db.WithContext(ctx), offsetFor(page, limit), limit)
	if err != nil {
		u.log.Warnf("Failed to list reviews: %+v", err)
		return nil, 0, err
	}
	return converter.ReviewsToResponses(reviews), total, nil
}

func (u *reviewUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page, limit int) ([]dto.ReviewResponse, int64, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, 0, err
	}
	if doctor == nil {
		return nil, 0, ErrDoctorNotFound
	}

	reviews, total, err := u.reviewRepo.FindByDoctorID(db, doctorID, offsetFor(page, limit), limit)
	if err != nil {
		u.log.Warnf("Failed to list doctor reviews: %+v", err)
		return nil, 0, err
	}
	return converter.ReviewsToResponses(reviews), total, nil
}
