package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/http/middleware"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/response"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetAvailableSlots lists the free slots for a doctor on a given date.
func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := h.appointmentUsecase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error())
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

// Create books a pending appointment for the authenticated patient.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, err.Error())
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrTimeSlotNotFound:
			response.NotFound(w, "Time slot not found")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

// Decide approves or rejects a pending appointment. Admin only.
func (h *AppointmentHandler) Decide(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req dto.DecideAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.Decide(r.Context(), adminID, appointmentID, entity.AppointmentStatus(req.Status))
	if err != nil {
		var slotTaken *usecase.SlotTakenError
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotPending):
			response.Conflict(w, "Appointment has already been decided")
		case errors.As(err, &slotTaken):
			response.Conflict(w, slotTaken.Error())
		default:
			response.InternalServerError(w, "Failed to decide appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment decision applied", result)
}

// Cancel releases an approved appointment owned by the caller.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), patientID, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotOwner:
			response.Forbidden(w, "Appointment does not belong to you")
		case usecase.ErrNotApproved:
			response.Conflict(w, "Only approved appointments can be cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// GetByID returns one appointment to its patient, its doctor, or an admin.
func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), userID, role, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotOwner:
			response.Forbidden(w, "Appointment does not belong to you")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// ListByPatient lists the caller's appointments, optionally filtered by status.
func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	status := entity.AppointmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		response.Error(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	page, limit := parsePagination(r)
	appointments, total, err := h.appointmentUsecase.ListByPatient(r.Context(), patientID, status, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Appointments retrieved successfully", appointments,
		response.NewPagination(total, page, limit))
}

// ListPending lists all pending appointments for admin review, oldest first.
func (h *AppointmentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	appointments, total, err := h.appointmentUsecase.ListPending(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list pending appointments")
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Pending appointments retrieved successfully", appointments,
		response.NewPagination(total, page, limit))
}
