package repository

import (
	"context"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListUnpaidOlderThan returns invoices still in "created" state that were
	// opened before the cutoff. Used by the maintenance sweeper.
	ListUnpaidOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Invoice, error)

	MarkPaid(ctx context.Context, invoiceID string) error

	// AddPurchase grants the course with set semantics: replaying the same
	// invoice callback must not duplicate the entry.
	AddPurchase(ctx context.Context, userID, courseID, invoiceID string) error
}
