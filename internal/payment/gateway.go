package payment

import "context"

// CreateInvoiceRequest describes a payment intent for one course.
type CreateInvoiceRequest struct {
	// Amount in minor units of the currency (kopiykas for UAH).
	AmountMinor int64
	// ISO 4217 numeric code, e.g. 980 for UAH.
	CurrencyCode int
	Reference    string
	Destination  string
	RedirectURL  string
	WebhookURL   string
	ValiditySec  int
}

// CreatedInvoice is the gateway's answer: the invoice ID used in webhook
// callbacks and the hosted payment page the buyer is redirected to.
type CreatedInvoice struct {
	InvoiceID string
	PageURL   string
}

// Gateway is the payment provider the shop creates invoices with.
type Gateway interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreatedInvoice, error)
	InvoiceStatus(ctx context.Context, invoiceID string) (string, error)
}

// StatusSuccess is the gateway status value that marks an invoice paid.
const StatusSuccess = "success"
