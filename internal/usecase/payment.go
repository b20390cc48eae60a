package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/drive"
	"github.com/vkravchuk/courseshop/internal/metrics"
	"github.com/vkravchuk/courseshop/internal/payment"
	"github.com/vkravchuk/courseshop/internal/repository"
)

// UAH ISO 4217 numeric code, the storefront's settlement currency.
const currencyUAH = 980

// PaymentConfig carries the gateway call parameters fixed at process start.
type PaymentConfig struct {
	RedirectURL string
	WebhookURL  string
	Validity    time.Duration
}

// PaymentUsecase owns the invoice lifecycle:
// NoInvoice -> InvoiceCreated -> Paid -> Granted.
type PaymentUsecase struct {
	courses  repository.CourseRepository
	invoices repository.InvoiceRepository
	gateway  payment.Gateway
	sharer   drive.Sharer
	cfg      PaymentConfig
	logger   *slog.Logger
}

func NewPaymentUsecase(
	courses repository.CourseRepository,
	invoices repository.InvoiceRepository,
	gateway payment.Gateway,
	sharer drive.Sharer,
	cfg PaymentConfig,
	logger *slog.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		courses:  courses,
		invoices: invoices,
		gateway:  gateway,
		sharer:   sharer,
		cfg:      cfg,
		logger:   logger.With("component", "payment"),
	}
}

// CreateInvoice opens a gateway invoice for the course and records the
// {invoiceId, courseId} pair against the user. An already-owned course is
// rejected before the gateway is ever called.
func (u *PaymentUsecase) CreateInvoice(ctx context.Context, user *domain.User, courseID string) (string, error) {
	course, err := u.courses.FindByID(ctx, courseID)
	if err != nil {
		return "", err
	}

	if user.Owns(course.ID) {
		return "", domain.ErrCourseAlreadyOwned
	}

	// Reference ties the gateway's settlement statement back to our invoice
	// row, so the same value goes to both sides.
	reference := ulid.Make().String()

	created, err := u.gateway.CreateInvoice(ctx, payment.CreateInvoiceRequest{
		AmountMinor:  course.Price.UAH,
		CurrencyCode: currencyUAH,
		Reference:    reference,
		Destination:  course.Name.EN,
		RedirectURL:  u.cfg.RedirectURL,
		WebhookURL:   u.cfg.WebhookURL,
		ValiditySec:  int(u.cfg.Validity.Seconds()),
	})
	if err != nil {
		return "", err
	}

	if err := u.invoices.Create(ctx, &domain.Invoice{
		InvoiceID: created.InvoiceID,
		UserID:    user.ID,
		CourseID:  course.ID,
		Reference: reference,
	}); err != nil {
		return "", err
	}

	metrics.InvoicesCreatedTotal.Inc()
	u.logger.InfoContext(ctx, "invoice created",
		"invoice_id", created.InvoiceID, "user_id", user.ID, "course_id", course.ID)

	return created.PageURL, nil
}

// HandleCallback reconciles a gateway status push. The gateway delivers
// at-least-once, so applying a paid invoice twice must be a no-op: the
// purchase insert uses set semantics in the store.
func (u *PaymentUsecase) HandleCallback(ctx context.Context, invoiceID, status string) (*domain.Invoice, error) {
	if status != payment.StatusSuccess {
		metrics.PaymentCallbacksTotal.WithLabelValues("pending").Inc()
		return nil, domain.ErrInvoiceNotPaid
	}

	inv, err := u.invoices.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		metrics.PaymentCallbacksTotal.WithLabelValues("unknown_invoice").Inc()
		return nil, err
	}

	// The course may have been deleted between invoice creation and payment.
	if _, err := u.courses.FindByID(ctx, inv.CourseID); err != nil {
		return nil, err
	}

	if err := u.invoices.AddPurchase(ctx, inv.UserID, inv.CourseID, inv.InvoiceID); err != nil {
		return nil, err
	}
	if err := u.invoices.MarkPaid(ctx, inv.InvoiceID); err != nil {
		return nil, err
	}

	metrics.PaymentCallbacksTotal.WithLabelValues("paid").Inc()
	metrics.PurchasesGrantedTotal.Inc()
	u.logger.InfoContext(ctx, "purchase granted",
		"invoice_id", inv.InvoiceID, "user_id", inv.UserID, "course_id", inv.CourseID)

	return inv, nil
}

// GrantFileAccess shares the course's backing file with the user's email and
// returns the grant ID. Ownership is not checked here — that matches the
// storefront's observed behavior; the warning keeps the gap visible.
func (u *PaymentUsecase) GrantFileAccess(ctx context.Context, user *domain.User, courseID string) (string, error) {
	course, err := u.courses.FindByID(ctx, courseID)
	if err != nil {
		return "", err
	}

	if !user.Owns(course.ID) {
		u.logger.WarnContext(ctx, "file access granted for un-owned course",
			"user_id", user.ID, "course_id", course.ID)
	}

	grantID, err := u.sharer.GrantRead(ctx, course.FileID, user.Email)
	if err != nil {
		return "", fmt.Errorf("grant file access: %w", err)
	}
	return grantID, nil
}

// Reconcile re-polls the gateway for an invoice that never delivered a
// callback and applies it through the same idempotent path if it turned out
// paid. Used by the maintenance sweeper.
func (u *PaymentUsecase) Reconcile(ctx context.Context, invoiceID string) (bool, error) {
	status, err := u.gateway.InvoiceStatus(ctx, invoiceID)
	if err != nil {
		return false, err
	}
	if status != payment.StatusSuccess {
		return false, nil
	}
	if _, err := u.HandleCallback(ctx, invoiceID, status); err != nil {
		return false, err
	}
	metrics.SweepReconciledTotal.Inc()
	return true, nil
}

// StaleInvoices lists invoices still unpaid past the validity window.
func (u *PaymentUsecase) StaleInvoices(ctx context.Context, limit int) ([]*domain.Invoice, error) {
	cutoff := time.Now().Add(-u.cfg.Validity)
	return u.invoices.ListUnpaidOlderThan(ctx, cutoff, limit)
}
