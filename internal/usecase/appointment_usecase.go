package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTimeSlotNotFound    = errors.New("time slot not found")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrPastDate            = errors.New("appointment date cannot be in the past")
	ErrNotPending          = errors.New("appointment has already been decided")
	ErrNotOwner            = errors.New("appointment does not belong to this patient")
	ErrNotApproved         = errors.New("only approved appointments can be cancelled")
)

// SlotTakenError is returned when an approval loses the race for a slot:
// another appointment already holds it.
type SlotTakenError struct {
	PatientName string
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("time slot already booked by %s", e.PatientName)
}

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error)
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Decide(ctx context.Context, adminID, appointmentID uuid.UUID, decision entity.AppointmentStatus) (*dto.DecisionResponse, error)
	Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, role entity.Role, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, status entity.AppointmentStatus, page, limit int) ([]dto.AppointmentResponse, int64, error)
	ListPending(ctx context.Context, page, limit int) ([]dto.AppointmentResponse, int64, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	timeSlotRepo    repository.TimeSlotRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	notifier        service.Notifier
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	timeSlotRepo repository.TimeSlotRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	notifier service.Notifier,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		timeSlotRepo:    timeSlotRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		notifier:        notifier,
	}
}

// GetAvailableSlots returns the slot catalog minus the slots already held
// (status=approved) for the doctor on that date. Pending requests do not
// consume availability; overbooking is resolved at decision time.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.timeSlotRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to load time slots: %+v", err)
		return nil, err
	}

	bookedIDs, err := u.appointmentRepo.FindBookedSlotIDs(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load booked slots: %+v", err)
		return nil, err
	}

	booked := make(map[int]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}

	available := make([]entity.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if _, taken := booked[slot.ID]; !taken {
			available = append(available, slot)
		}
	}

	return converter.TimeSlotsToResponses(available), nil
}

// Create books an appointment request in pending state. No slot lock is
// taken: multiple patients may request the same slot and the conflict is
// resolved when an admin decides.
func (u *appointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	day, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, ErrPastDate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slot, err := u.timeSlotRepo.FindByID(tx, req.TimeSlotID)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}

	appointment := &entity.Appointment{
		DoctorID:         doctor.ID,
		PatientID:        patient.ID,
		AppointmentDate:  day,
		TimeSlotID:       slot.ID,
		ConsultationType: req.ConsultationType,
		PatientAge:       req.PatientAge,
		PatientGender:    req.PatientGender,
		HealthInfo:       req.HealthInfo,
		Status:           entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		// The doctor row can vanish between the existence check and the insert.
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
		"doctor_id":        appointment.DoctorID,
		"appointment_date": req.AppointmentDate,
		"time_slot_id":     appointment.TimeSlotID,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Doctor = *doctor
	appointment.Patient = *patient
	appointment.TimeSlot = *slot

	u.notifier.Notify(notificationFor(service.NotificationBooked, patient, appointment))

	return converter.AppointmentToResponse(appointment), nil
}

// Decide approves or rejects a pending appointment. Approval must win the
// slot exclusively: the whole conflict set for the slot tuple is locked
// before checking for an existing holder, then every remaining pending
// competitor is rejected in the same transaction.
func (u *appointmentUsecase) Decide(ctx context.Context, adminID, appointmentID uuid.UUID, decision entity.AppointmentStatus) (*dto.DecisionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	target, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if target == nil {
		return nil, ErrAppointmentNotFound
	}

	locked, err := u.appointmentRepo.LockSlotTuple(tx, target.DoctorID, target.AppointmentDate, target.TimeSlotID)
	if err != nil {
		u.log.Warnf("Failed to lock slot tuple: %+v", err)
		return nil, err
	}

	// Re-read the target's status from the locked rows. A concurrent decision
	// may have cascaded it to rejected between the initial read and the lock.
	for _, a := range locked {
		if a.ID == target.ID {
			target.Status = a.Status
			break
		}
	}
	// When approving, an existing holder on the slot takes precedence over
	// the pending guard: even a cascade-rejected request gets the conflict
	// naming the holding patient, not a bare already-decided error.
	if decision == entity.AppointmentStatusApproved {
		for _, a := range locked {
			if a.ID != target.ID && a.IsApproved() {
				holder, err := u.userRepo.FindByID(tx, a.PatientID)
				if err != nil {
					u.log.Warnf("Failed to find slot holder: %+v", err)
					return nil, err
				}
				name := "another patient"
				if holder != nil {
					name = holder.Name
				}
				return nil, &SlotTakenError{PatientName: name}
			}
		}
	}
	if !target.IsPending() {
		return nil, ErrNotPending
	}

	var victims []entity.Appointment
	var cascaded int64

	if decision == entity.AppointmentStatusApproved {
		// Collected before the cascade so the losers can still be notified.
		victims, err = u.appointmentRepo.FindPendingSiblings(tx, target.DoctorID, target.AppointmentDate, target.TimeSlotID, target.ID)
		if err != nil {
			u.log.Warnf("Failed to find pending siblings: %+v", err)
			return nil, err
		}
	}

	if err := u.appointmentRepo.UpdateStatus(tx, target.ID, decision); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}

	if decision == entity.AppointmentStatusApproved {
		cascaded, err = u.appointmentRepo.CascadeRejectSiblings(tx, target.DoctorID, target.AppointmentDate, target.TimeSlotID, target.ID)
		if err != nil {
			u.log.Warnf("Failed to cascade-reject siblings: %+v", err)
			return nil, err
		}
	}

	action := entity.AuditActionAppointmentApprove
	if decision == entity.AppointmentStatusRejected {
		action = entity.AuditActionAppointmentReject
	}
	u.auditService.LogUpdate(ctx, tx, &adminID, action, "appointment", target.ID.String(),
		map[string]interface{}{"status": entity.AppointmentStatusPending},
		map[string]interface{}{"status": decision, "cascaded_rejections": cascaded},
	)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	target.Status = decision

	kind := service.NotificationApproved
	if decision == entity.AppointmentStatusRejected {
		kind = service.NotificationRejected
	}
	u.notifier.Notify(notificationFor(kind, &target.Patient, target))
	for i := range victims {
		// Losers share the target's slot tuple, so the target's doctor and
		// slot details describe their appointment too.
		victims[i].Doctor = target.Doctor
		victims[i].TimeSlot = target.TimeSlot
		u.notifier.Notify(notificationFor(service.NotificationRejected, &victims[i].Patient, &victims[i]))
	}

	return &dto.DecisionResponse{
		Appointment: converter.AppointmentToResponse(target),
		Cascaded:    cascaded,
	}, nil
}

// Cancel releases an approved appointment. Only the owning patient may
// cancel, and only from approved: pending requests are decided by admins,
// rejected ones have nothing to release.
func (u *appointmentUsecase) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotOwner
	}
	if !appointment.IsApproved() {
		return nil, ErrNotApproved
	}

	if err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, entity.AppointmentStatusCancelled); err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(),
		map[string]interface{}{"status": entity.AppointmentStatusApproved},
		map[string]interface{}{"status": entity.AppointmentStatusCancelled},
	)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCancelled
	return converter.AppointmentToResponse(appointment), nil
}

// GetByID returns one appointment to its patient, its doctor, or an admin.
func (u *appointmentUsecase) GetByID(ctx context.Context, userID uuid.UUID, role entity.Role, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	allowed := role == entity.RoleAdmin ||
		appointment.PatientID == userID ||
		(role == entity.RoleDoctor && appointment.Doctor.UserID == userID)
	if !allowed {
		return nil, ErrNotOwner
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID, status entity.AppointmentStatus, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	appointments, total, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID, status, offsetFor(page, limit), limit)
	if err != nil {
		u.log.Warnf("Failed to list patient appointments: %+v", err)
		return nil, 0, err
	}
	return converter.AppointmentsToResponses(appointments), total, nil
}

func (u *appointmentUsecase) ListPending(ctx context.Context, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	appointments, total, err := u.appointmentRepo.FindPending(u.db.WithContext(ctx), offsetFor(page, limit), limit)
	if err != nil {
		u.log.Warnf("Failed to list pending appointments: %+v", err)
		return nil, 0, err
	}
	return converter.AppointmentsToResponses(appointments), total, nil
}

func notificationFor(kind service.NotificationKind, patient *entity.User, appointment *entity.Appointment) service.Notification {
	return service.Notification{
		Kind:             kind,
		RecipientEmail:   patient.Email,
		RecipientName:    patient.Name,
		DoctorName:       appointment.Doctor.User.Name,
		AppointmentDate:  appointment.AppointmentDate.Format("2006-01-02"),
		StartTime:        appointment.TimeSlot.StartTime,
		EndTime:          appointment.TimeSlot.EndTime,
		ConsultationType: appointment.ConsultationType,
	}
}
