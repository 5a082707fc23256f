package usecase

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// newTestDB returns an in-memory database used purely as a transaction
// handle; the fake repositories below keep their own state and ignore it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// fakeUserRepo

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmailAndRole(db *gorm.DB, email string, role entity.Role) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

// fakeDoctorRepo

type fakeDoctorRepo struct {
	doctors         map[uuid.UUID]*entity.Doctor
	recalculatedFor []uuid.UUID
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*entity.Doctor)}
}

func (r *fakeDoctorRepo) add(doctor *entity.Doctor) *entity.Doctor {
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.doctors[doctor.ID] = doctor
	return doctor
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	r.add(doctor)
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.doctors[id], nil
}

func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) Search(db *gorm.DB, filter *entity.DoctorFilter, offset, limit int) ([]entity.Doctor, int64, error) {
	var matched []entity.Doctor
	for _, d := range r.doctors {
		if filter.Specialty != "" && d.Specialty != filter.Specialty {
			continue
		}
		if filter.Gender != "" && d.Gender != filter.Gender {
			continue
		}
		if filter.MinExperience != nil && d.Experience < *filter.MinExperience {
			continue
		}
		if filter.MaxExperience != nil && d.Experience > *filter.MaxExperience {
			continue
		}
		if filter.MinRating != nil {
			rating, _ := d.AverageRating.Float64()
			if rating < *filter.MinRating || rating >= *filter.MinRating+1 {
				continue
			}
		}
		matched = append(matched, *d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Experience > matched[j].Experience })

	total := int64(len(matched))
	if offset > len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeDoctorRepo) RecalculateAverageRating(db *gorm.DB, doctorID uuid.UUID) error {
	r.recalculatedFor = append(r.recalculatedFor, doctorID)
	return nil
}

// fakeTimeSlotRepo

type fakeTimeSlotRepo struct {
	slots []entity.TimeSlot
}

func (r *fakeTimeSlotRepo) FindAll(db *gorm.DB) ([]entity.TimeSlot, error) {
	return r.slots, nil
}

func (r *fakeTimeSlotRepo) FindByID(db *gorm.DB, id int) (*entity.TimeSlot, error) {
	for i := range r.slots {
		if r.slots[i].ID == id {
			return &r.slots[i], nil
		}
	}
	return nil, nil
}

// fakeAppointmentRepo

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) add(a *entity.Appointment) *entity.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.appointments[a.ID] = a
	return a
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, a *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(a)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.FindByID(db, id)
}

func (r *fakeAppointmentRepo) tupleMatches(a *entity.Appointment, doctorID uuid.UUID, date time.Time, timeSlotID int) bool {
	return a.DoctorID == doctorID && sameDay(a.AppointmentDate, date) && a.TimeSlotID == timeSlotID
}

func (r *fakeAppointmentRepo) LockSlotTuple(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int) ([]entity.Appointment, error) {
	var result []entity.Appointment
	for _, a := range r.appointments {
		if r.tupleMatches(a, doctorID, date, timeSlotID) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeAppointmentRepo) FindPendingSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) ([]entity.Appointment, error) {
	var result []entity.Appointment
	for _, a := range r.appointments {
		if a.ID != excludeID && a.Status == entity.AppointmentStatusPending && r.tupleMatches(a, doctorID, date, timeSlotID) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) CascadeRejectSiblings(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlotID int, excludeID uuid.UUID) (int64, error) {
	var affected int64
	for _, a := range r.appointments {
		if a.ID != excludeID && a.Status == entity.AppointmentStatusPending && r.tupleMatches(a, doctorID, date, timeSlotID) {
			a.Status = entity.AppointmentStatusRejected
			affected++
		}
	}
	return affected, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	if a, ok := r.appointments[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *fakeAppointmentRepo) SetReviewed(db *gorm.DB, id uuid.UUID) error {
	if a, ok := r.appointments[id]; ok {
		a.IsReviewed = true
	}
	return nil
}

func (r *fakeAppointmentRepo) FindBookedSlotIDs(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]int, error) {
	var ids []int
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && sameDay(a.AppointmentDate, date) && a.Status == entity.AppointmentStatusApproved {
			ids = append(ids, a.TimeSlotID)
		}
	}
	return ids, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status entity.AppointmentStatus, offset, limit int) ([]entity.Appointment, int64, error) {
	var result []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID != patientID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AppointmentDate.After(result[j].AppointmentDate) })
	return paginate(result, offset, limit)
}

func (r *fakeAppointmentRepo) FindPending(db *gorm.DB, offset, limit int) ([]entity.Appointment, int64, error) {
	var result []entity.Appointment
	for _, a := range r.appointments {
		if a.Status == entity.AppointmentStatusPending {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, offset, limit)
}

func paginate(items []entity.Appointment, offset, limit int) ([]entity.Appointment, int64, error) {
	total := int64(len(items))
	if offset > len(items) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

// fakeReviewRepo

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*entity.Review // keyed by appointment ID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *entity.Review) error {
	if _, exists := r.reviews[review.AppointmentID]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_appointment_id"}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	r.reviews[review.AppointmentID] = review
	return nil
}

func (r *fakeReviewRepo) ExistsByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (bool, error) {
	_, exists := r.reviews[appointmentID]
	return exists, nil
}

func (r *fakeReviewRepo) FindAll(db *gorm.DB, offset, limit int) ([]entity.Review, int64, error) {
	var result []entity.Review
	for _, rv := range r.reviews {
		result = append(result, *rv)
	}
	total := int64(len(result))
	if offset > len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (r *fakeReviewRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, offset, limit int) ([]entity.Review, int64, error) {
	var result []entity.Review
	for _, rv := range r.reviews {
		if rv.DoctorID == doctorID {
			result = append(result, *rv)
		}
	}
	total := int64(len(result))
	if offset > len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (r *fakeReviewRepo) CountByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	var total int64
	for _, rv := range r.reviews {
		if rv.DoctorID == doctorID {
			total++
		}
	}
	return total, nil
}

// fakeNotifier records notifications instead of sending mail.

type fakeNotifier struct {
	sent []service.Notification
}

func (n *fakeNotifier) Notify(notification service.Notification) {
	n.sent = append(n.sent, notification)
}

func (n *fakeNotifier) byKind(kind service.NotificationKind) []service.Notification {
	var result []service.Notification
	for _, s := range n.sent {
		if s.Kind == kind {
			result = append(result, s)
		}
	}
	return result
}

// fakeAuditService records audit calls.

type auditEntry struct {
	Action   string
	EntityID string
}

type fakeAuditService struct {
	entries []auditEntry
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{Action: action, EntityID: entityID})
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{Action: action, EntityID: entityID})
	return nil
}

func (s *fakeAuditService) lastAction() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].Action
}
