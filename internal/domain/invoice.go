package domain

import "time"

type InvoiceStatus string

const (
	InvoiceCreated InvoiceStatus = "created"
	InvoicePaid    InvoiceStatus = "paid"
)

// Invoice maps a gateway invoice ID back to the purchase it was created for,
// so a webhook callback reconciles in a single indexed lookup.
type Invoice struct {
	InvoiceID string
	UserID    string
	CourseID  string
	Status    InvoiceStatus
	Reference string
	CreatedAt time.Time
	PaidAt    *time.Time
}
