package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gender constants shared by doctor profiles and appointment patient data.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Doctor represents a doctor profile attached 1:1 to a User with role=doctor.
// AverageRating is a materialized cache recomputed inside the review transaction.
type Doctor struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialty       string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Experience      int             `gorm:"default:0" json:"experience"`
	Education       string          `gorm:"type:text" json:"education,omitempty"`
	Bio             string          `gorm:"type:text" json:"bio,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	Location        string          `gorm:"type:varchar(255)" json:"location,omitempty"`
	Languages       StringList      `gorm:"type:jsonb" json:"languages,omitempty"`
	PhotoPath       string          `gorm:"type:text" json:"photo_path,omitempty"`
	Gender          string          `gorm:"type:varchar(10);not null" json:"gender"`
	AverageRating   decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"average_rating"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// StringList is a JSONB-backed list of strings (doctor languages).
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal JSONB value:", value))
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = StringList(result)
	return nil
}

// DoctorFilter is a domain-level filter for querying the doctor directory.
// Used by the repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Name          string // ILIKE match on the doctor's user name
	Gender        string
	Specialty     string // ILIKE match
	MinExperience *int
	MaxExperience *int
	// MinRating selects the half-open rating bucket [MinRating, MinRating+1).
	MinRating *float64
}
