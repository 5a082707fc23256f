package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/http/middleware"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/response"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

// Create onboards a doctor account and profile. Admin only.
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), adminID, &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "Email already exists")
		default:
			response.InternalServerError(w, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// GetByID returns one doctor profile with its review count.
func (h *DoctorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	doctor, err := h.doctorUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

// Search lists the doctor directory with filters and pagination.
func (h *DoctorHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseDoctorSearchRequest(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctors, total, err := h.doctorUsecase.Search(r.Context(), req)
	if err != nil {
		response.InternalServerError(w, "Failed to search doctors")
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Doctors retrieved successfully", doctors,
		response.NewPagination(total, req.Page, req.Limit))
}

func parseDoctorSearchRequest(r *http.Request) (*dto.DoctorSearchRequest, error) {
	q := r.URL.Query()
	req := &dto.DoctorSearchRequest{
		Name:      q.Get("name"),
		Gender:    q.Get("gender"),
		Specialty: q.Get("specialty"),
		Page:      1,
		Limit:     10,
	}

	if v := q.Get("experience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidQueryParam("experience")
		}
		req.Experience = &n
	}
	if v := q.Get("max_experience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidQueryParam("max_experience")
		}
		req.MaxExperience = &n
	}
	if v := q.Get("rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errInvalidQueryParam("rating")
		}
		req.Rating = &f
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidQueryParam("page")
		}
		req.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidQueryParam("limit")
		}
		req.Limit = n
	}

	return req, nil
}
