package service

import (
	"fmt"
	"sync"

	"github.com/gobinddhanjal12/medcare-app-backend/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// NotificationKind identifies the appointment lifecycle event being notified.
type NotificationKind string

const (
	NotificationBooked   NotificationKind = "booked"
	NotificationApproved NotificationKind = "approved"
	NotificationRejected NotificationKind = "rejected"
)

// Notification carries everything needed to compose a patient email.
type Notification struct {
	Kind             NotificationKind
	RecipientEmail   string
	RecipientName    string
	DoctorName       string
	AppointmentDate  string
	StartTime        string
	EndTime          string
	ConsultationType string
}

// Notifier is the fire-and-forget notification hook. Implementations must
// never block the caller and must swallow delivery errors.
type Notifier interface {
	Notify(n Notification)
}

// MailSender performs the actual delivery of one message.
type MailSender interface {
	Send(n Notification) error
}

// MailDispatcher queues notifications onto a buffered channel consumed by a
// background worker. A full queue drops the notification with a log line;
// appointment transactions are never held up by email.
type MailDispatcher struct {
	sender MailSender
	log    *logrus.Logger
	queue  chan Notification
	wg     sync.WaitGroup
	once   sync.Once
}

const mailQueueSize = 100

func NewMailDispatcher(sender MailSender, log *logrus.Logger) *MailDispatcher {
	d := &MailDispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Notification, mailQueueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

func (d *MailDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		if err := d.sender.Send(n); err != nil {
			d.log.Warnf("Failed to send %s notification to %s: %+v", n.Kind, n.RecipientEmail, err)
		}
	}
}

// Notify enqueues a notification without blocking.
func (d *MailDispatcher) Notify(n Notification) {
	if n.RecipientEmail == "" {
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.Warnf("Notification queue full, dropping %s notification for %s", n.Kind, n.RecipientEmail)
	}
}

// Stop drains the queue and waits for the worker to finish.
// Safe to call once during graceful shutdown.
func (d *MailDispatcher) Stop() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// SMTPSender delivers notifications over SMTP via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(n Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.RecipientEmail)
	m.SetHeader("Subject", subjectFor(n.Kind))
	m.SetBody("text/plain", bodyFor(n))
	return s.dialer.DialAndSend(m)
}

func subjectFor(kind NotificationKind) string {
	switch kind {
	case NotificationBooked:
		return "Appointment request received"
	case NotificationApproved:
		return "Your appointment has been approved"
	case NotificationRejected:
		return "Your appointment request was not approved"
	}
	return "Appointment update"
}

func bodyFor(n Notification) string {
	slot := fmt.Sprintf("%s from %s to %s", n.AppointmentDate, n.StartTime, n.EndTime)
	switch n.Kind {
	case NotificationBooked:
		return fmt.Sprintf(
			"Dear %s,\n\nYour %s appointment request with Dr. %s on %s has been submitted and is waiting for admin approval.\n\nMedCare Team",
			n.RecipientName, n.ConsultationType, n.DoctorName, slot)
	case NotificationApproved:
		return fmt.Sprintf(
			"Dear %s,\n\nYour appointment with Dr. %s on %s has been approved. See you there!\n\nMedCare Team",
			n.RecipientName, n.DoctorName, slot)
	case NotificationRejected:
		return fmt.Sprintf(
			"Dear %s,\n\nUnfortunately your appointment request with Dr. %s on %s could not be approved. Please pick another slot.\n\nMedCare Team",
			n.RecipientName, n.DoctorName, slot)
	}
	return fmt.Sprintf("Dear %s,\n\nYour appointment on %s has been updated.\n\nMedCare Team", n.RecipientName, slot)
}
