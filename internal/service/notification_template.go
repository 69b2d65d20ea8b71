package service

import (
	"bytes"
	"fmt"
	"html/template"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/validator"
)

// NotificationEvent names the lifecycle change a notification reports.
type NotificationEvent string

const (
	EventAppointmentApproved  NotificationEvent = "approved"
	EventCaregiverReassigned  NotificationEvent = "reassigned"
	EventAppointmentCanceled  NotificationEvent = "canceled"
	EventAppointmentCompleted NotificationEvent = "completed"
)

const (
	notificationSignature      = "JKL Healthcare Team"
	subjectReassigned          = "Caregiver Reassigned to Your Appointment"
	subjectReassignmentRemoved = "Caregiver Reassignment Notification"
	subjectCompleted           = "Appointment Completed"
)

// Notification is a snapshot of the records involved in a committed transition.
type Notification struct {
	Event             NotificationEvent
	Appointment       entity.Appointment
	Patient           *entity.Patient
	Caregiver         *entity.Caregiver
	PreviousCaregiver *entity.Caregiver
}

// Message is one rendered email.
type Message struct {
	Event   NotificationEvent
	To      string
	Subject string
	Body    string
}

type messageView struct {
	Heading   string
	Recipient string
	Lines     []string
	Signature string
}

var messageTemplate = template.Must(template.New("message").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
<h2>{{.Heading}}</h2>
<p>Dear <strong>{{.Recipient}}</strong>,</p>
{{range .Lines}}<p>{{.}}</p>
{{end}}<p>Thank you,<br>{{.Signature}}</p>
</div>`))

// RenderMessages builds the emails for n. Recipients that are missing or have no email
// address are skipped.
func RenderMessages(n Notification) ([]Message, error) {
	date, clock := scheduleOf(n.Appointment)
	var out []Message

	add := func(to, subject, heading, recipient string, lines ...string) error {
		if to == "" {
			return nil
		}
		var buf bytes.Buffer
		err := messageTemplate.Execute(&buf, messageView{
			Heading:   heading,
			Recipient: recipient,
			Lines:     lines,
			Signature: notificationSignature,
		})
		if err != nil {
			return fmt.Errorf("render %s message: %w", n.Event, err)
		}
		out = append(out, Message{Event: n.Event, To: to, Subject: subject, Body: buf.String()})
		return nil
	}

	patientName, patientEmail := "Patient", ""
	if n.Patient != nil {
		patientName, patientEmail = n.Patient.FullName(), n.Patient.Email
	}
	caregiverName, caregiverEmail := "Caregiver", ""
	if n.Caregiver != nil {
		caregiverName, caregiverEmail = n.Caregiver.FullName(), n.Caregiver.Email
	}
	when := fmt.Sprintf("%s at %s", date, clock)

	var err error
	switch n.Event {
	case EventAppointmentApproved:
		subject := "Appointment Approved: " + date
		if err = add(patientEmail, subject, "Appointment Confirmation", patientName,
			fmt.Sprintf("Your appointment has been approved with caregiver %s on %s.", caregiverName, when),
			"Please arrive 5 minutes before your scheduled appointment time."); err != nil {
			return nil, err
		}
		err = add(caregiverEmail, subject, "Appointment Confirmation", caregiverName,
			fmt.Sprintf("An appointment with %s has been approved for %s.", patientName, when),
			"Please mark this in your calendar.")

	case EventCaregiverReassigned:
		if err = add(caregiverEmail, subjectReassigned, "Caregiver Reassigned", caregiverName,
			fmt.Sprintf("You have been reassigned to the appointment with %s scheduled for %s.", patientName, when)); err != nil {
			return nil, err
		}
		if err = add(patientEmail, subjectReassigned, subjectReassigned, patientName,
			fmt.Sprintf("The caregiver for your appointment scheduled on %s has been reassigned to %s.", when, caregiverName)); err != nil {
			return nil, err
		}
		if prev := n.PreviousCaregiver; prev != nil && (n.Caregiver == nil || prev.ID != n.Caregiver.ID) {
			err = add(prev.Email, subjectReassignmentRemoved, subjectReassignmentRemoved, prev.FullName(),
				fmt.Sprintf("You have been removed from the appointment with %s scheduled for %s.", patientName, when))
		}

	case EventAppointmentCanceled:
		subject := "Appointment Canceled: " + date
		if err = add(patientEmail, subject, "Appointment Canceled", patientName,
			fmt.Sprintf("Unfortunately, your appointment scheduled for %s has been canceled.", when)); err != nil {
			return nil, err
		}
		err = add(caregiverEmail, subject, "Appointment Canceled", caregiverName,
			fmt.Sprintf("Your appointment with %s scheduled for %s has been canceled.", patientName, when))

	case EventAppointmentCompleted:
		err = add(patientEmail, subjectCompleted, subjectCompleted, patientName,
			fmt.Sprintf("Your appointment with %s on %s has been completed.", caregiverName, when))

	default:
		return nil, fmt.Errorf("unknown notification event %q", n.Event)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scheduleOf prefers the confirmed schedule and falls back to the requested one.
func scheduleOf(a entity.Appointment) (string, string) {
	if a.AppointmentDate != nil {
		clock := a.AppointmentTime
		if clock == "" {
			clock = a.RequestedTime
		}
		return a.AppointmentDate.Format(validator.DateLayout), clock
	}
	return a.RequestedDate.Format(validator.DateLayout), a.RequestedTime
}
