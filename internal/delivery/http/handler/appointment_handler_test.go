package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/http/middleware"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/response"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubAppointmentUsecase struct {
	decideFn            func(ctx context.Context, adminID, appointmentID uuid.UUID, decision entity.AppointmentStatus) (*dto.DecisionResponse, error)
	createFn            func(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	getAvailableSlotsFn func(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error)
}

func (s *stubAppointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error) {
	return s.getAvailableSlotsFn(ctx, doctorID, date)
}

func (s *stubAppointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.createFn(ctx, patientID, req)
}

func (s *stubAppointmentUsecase) Decide(ctx context.Context, adminID, appointmentID uuid.UUID, decision entity.AppointmentStatus) (*dto.DecisionResponse, error) {
	return s.decideFn(ctx, adminID, appointmentID, decision)
}

func (s *stubAppointmentUsecase) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, nil
}

func (s *stubAppointmentUsecase) GetByID(ctx context.Context, userID uuid.UUID, role entity.Role, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, nil
}

func (s *stubAppointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID, status entity.AppointmentStatus, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubAppointmentUsecase) ListPending(ctx context.Context, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	return nil, 0, nil
}

func authedRequest(r *http.Request, userID uuid.UUID, role entity.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var envelope response.Response
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func newAppointmentRouter(uc usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/appointments/available-slots/{doctorId}", h.GetAvailableSlots).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/request-status", h.Decide).Methods(http.MethodPatch)
	return r
}

func TestDecideSlotConflictReturns409(t *testing.T) {
	stub := &stubAppointmentUsecase{
		decideFn: func(ctx context.Context, adminID, appointmentID uuid.UUID, decision entity.AppointmentStatus) (*dto.DecisionResponse, error) {
			return nil, &usecase.SlotTakenError{PatientName: "Bob"}
		},
	}
	router := newAppointmentRouter(stub)

	body := bytes.NewBufferString(`{"status":"approved"}`)
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString()+"/request-status", body)
	req = authedRequest(req, uuid.New(), entity.RoleAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "error" {
		t.Errorf("expected error envelope, got %q", envelope.Status)
	}
	if envelope.Message == "" || !bytes.Contains([]byte(envelope.Message), []byte("Bob")) {
		t.Errorf("conflict message must name the holding patient, got %q", envelope.Message)
	}
}

func TestDecideRejectsInvalidStatus(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{})

	body := bytes.NewBufferString(`{"status":"cancelled"}`)
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString()+"/request-status", body)
	req = authedRequest(req, uuid.New(), entity.RoleAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Errors == nil {
		t.Error("expected field errors in validation response")
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{})

	// patient_age out of range, consultation_type unknown
	body := bytes.NewBufferString(`{"doctor_id":"` + uuid.NewString() + `","appointment_date":"2027-03-15","time_slot_id":1,"consultation_type":"phone","patient_age":150,"patient_gender":"female"}`)
	req := httptest.NewRequest(http.MethodPost, "/appointments", body)
	req = authedRequest(req, uuid.New(), entity.RolePatient)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAppointmentRequiresAuth(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/appointments", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", rec.Code)
	}
}

func TestGetAvailableSlotsSuccessEnvelope(t *testing.T) {
	doctorID := uuid.New()
	stub := &stubAppointmentUsecase{
		getAvailableSlotsFn: func(ctx context.Context, id uuid.UUID, date string) ([]dto.TimeSlotResponse, error) {
			if id != doctorID {
				t.Errorf("expected doctor %s, got %s", doctorID, id)
			}
			if date != "2027-03-15" {
				t.Errorf("expected date passthrough, got %s", date)
			}
			return []dto.TimeSlotResponse{{ID: 1, StartTime: "09:00", EndTime: "09:30"}}, nil
		},
	}
	router := newAppointmentRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/appointments/available-slots/"+doctorID.String()+"?date=2027-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "success" {
		t.Errorf("expected success envelope, got %q", envelope.Status)
	}
	if envelope.Data == nil {
		t.Error("expected slot data in envelope")
	}
}

func TestGetAvailableSlotsRequiresDate(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/appointments/available-slots/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", rec.Code)
	}
}
