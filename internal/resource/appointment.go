package resource

import "time"

const (
	AppointmentPending   Status = "pending"
	AppointmentConfirmed Status = "confirmed"
	AppointmentCompleted Status = "completed"
	AppointmentCancelled Status = "cancelled"
)

// Appointment is an in-store custom design request.
type Appointment struct {
	ID              ID         `json:"id"`
	CustomerName    string     `json:"customerName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	PreferredDate   *time.Time `json:"preferredDate,omitempty"`
	Budget          float64    `json:"budget,omitempty"`
	DesignNotes     string     `json:"designNotes,omitempty"`
	ReferenceImages []string   `json:"referenceImages,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

func (a Appointment) ResourceID() ID {
	return a.ID
}

func (a Appointment) ResourceStatus() Status {
	return a.Status
}
