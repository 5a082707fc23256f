package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/http/middleware"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/response"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

// Submit records a review for one of the caller's approved appointments.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.Submit(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrReviewNotOwnPatient:
			response.Forbidden(w, "Appointment does not belong to you")
		case usecase.ErrReviewNotAllowed:
			response.Error(w, http.StatusBadRequest, "Only approved appointments can be reviewed")
		case usecase.ErrReviewExists:
			response.Conflict(w, "Appointment has already been reviewed")
		default:
			response.InternalServerError(w, "Failed to submit review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review submitted successfully", review)
}

// ListAll lists all reviews, best rated first.
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	reviews, total, err := h.reviewUsecase.ListAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list reviews")
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Reviews retrieved successfully", reviews,
		response.NewPagination(total, page, limit))
}

// ListByDoctor lists the reviews for one doctor.
func (h *ReviewHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	page, limit := parsePagination(r)
	reviews, total, err := h.reviewUsecase.ListByDoctor(r.Context(), doctorID, page, limit)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to list doctor reviews")
		}
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Reviews retrieved successfully", reviews,
		response.NewPagination(total, page, limit))
}
