package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubReviewUsecase struct {
	submitFn func(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

func (s *stubReviewUsecase) Submit(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	return s.submitFn(ctx, patientID, req)
}

func (s *stubReviewUsecase) ListAll(ctx context.Context, page, limit int) ([]dto.ReviewResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubReviewUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page, limit int) ([]dto.ReviewResponse, int64, error) {
	return nil, 0, nil
}

func newReviewRouter(uc usecase.ReviewUsecase) *mux.Router {
	h := NewReviewHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/reviews", h.Submit).Methods(http.MethodPost)
	return r
}

func TestSubmitReviewRejectsOutOfRangeRating(t *testing.T) {
	router := newReviewRouter(&stubReviewUsecase{
		submitFn: func(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
			t.Fatal("usecase must not be called for an invalid rating")
			return nil, nil
		},
	})

	body := bytes.NewBufferString(`{"appointment_id":"` + uuid.NewString() + `","rating":6,"comment":"great"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	req = authedRequest(req, uuid.New(), entity.RolePatient)
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

func TestSubmitReviewSuccessEnvelope(t *testing.T) {
	patientID := uuid.New()
	appointmentID := uuid.New()
	stub := &stubReviewUsecase{
		submitFn: func(ctx context.Context, id uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
			if id != patientID {
				t.Errorf("expected patient %s, got %s", patientID, id)
			}
			if req.AppointmentID != appointmentID || req.Rating != 5 {
				t.Errorf("request not passed through: %+v", req)
			}
			return &dto.ReviewResponse{ID: uuid.New(), AppointmentID: appointmentID, Rating: 5}, nil
		},
	}
	router := newReviewRouter(stub)

	body := bytes.NewBufferString(`{"appointment_id":"` + appointmentID.String() + `","rating":5,"comment":"great"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	req = authedRequest(req, patientID, entity.RolePatient)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "success" {
		t.Errorf("expected success envelope, got %q", envelope.Status)
	}
	if envelope.Data == nil {
		t.Error("expected review data in envelope")
	}
}

func TestSubmitReviewDuplicateReturns409(t *testing.T) {
	router := newReviewRouter(&stubReviewUsecase{
		submitFn: func(ctx context.Context, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
			return nil, usecase.ErrReviewExists
		},
	})

	body := bytes.NewBufferString(`{"appointment_id":"` + uuid.NewString() + `","rating":4}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	req = authedRequest(req, uuid.New(), entity.RolePatient)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
