package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateDoctorRequest is the admin onboarding payload. Password is optional:
// when absent the account is OAuth-only and carries no password hash.
type CreateDoctorRequest struct {
	Name            string          `json:"name" validate:"required,min=2"`
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"omitempty,min=6"`
	Specialty       string          `json:"specialty" validate:"required"`
	Experience      int             `json:"experience" validate:"omitempty,gte=0"`
	Education       string          `json:"education" validate:"omitempty"`
	Bio             string          `json:"bio" validate:"omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee" validate:"required"`
	Location        string          `json:"location" validate:"omitempty"`
	Languages       []string        `json:"languages" validate:"omitempty,dive,min=1"`
	PhotoPath       string          `json:"photo_path" validate:"omitempty,url"`
	Gender          string          `json:"gender" validate:"required,oneof=male female other"`
}

// DoctorSearchRequest carries the directory filter query parameters.
type DoctorSearchRequest struct {
	Name          string
	Gender        string `validate:"omitempty,oneof=male female other"`
	Specialty     string
	Experience    *int     `validate:"omitempty,gte=0"`
	MaxExperience *int     `validate:"omitempty,gte=0"`
	Rating        *float64 `validate:"omitempty,gte=0,lte=5"`
	Page          int      `validate:"gte=1"`
	Limit         int      `validate:"gte=1,lte=100"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Specialty       string          `json:"specialty"`
	Experience      int             `json:"experience"`
	Education       string          `json:"education,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Location        string          `json:"location,omitempty"`
	Languages       []string        `json:"languages,omitempty"`
	PhotoPath       string          `json:"photo_path,omitempty"`
	Gender          string          `json:"gender"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	TotalReviews    *int64          `json:"total_reviews,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
