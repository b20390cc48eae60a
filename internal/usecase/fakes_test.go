package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/payment"
	"github.com/vkravchuk/courseshop/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	createFn          func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByIDFn        func(ctx context.Context, id string) (*domain.User, error)
	findByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	listFn            func(ctx context.Context) ([]*domain.User, error)
	updateNameFn      func(ctx context.Context, id, userName string) (*domain.User, error)
	updatePasswordFn  func(ctx context.Context, id, passwordHash string) error
	setResetTokenFn   func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	clearResetTokenFn func(ctx context.Context, id string) error
	purgeFn           func(ctx context.Context) (int64, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.findByEmailFn(ctx, email)
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return f.listFn(ctx)
}

func (f *fakeUserRepo) UpdateName(ctx context.Context, id, userName string) (*domain.User, error) {
	return f.updateNameFn(ctx, id, userName)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return f.updatePasswordFn(ctx, id, passwordHash)
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return f.setResetTokenFn(ctx, id, tokenHash, expiresAt)
}

func (f *fakeUserRepo) ClearResetToken(ctx context.Context, id string) error {
	return f.clearResetTokenFn(ctx, id)
}

func (f *fakeUserRepo) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	return f.purgeFn(ctx)
}

type fakeCourseRepo struct {
	createFn   func(ctx context.Context, course *domain.Course) (*domain.Course, error)
	findByIDFn func(ctx context.Context, id string) (*domain.Course, error)
	listFn     func(ctx context.Context) ([]*domain.Course, error)
	updateFn   func(ctx context.Context, course *domain.Course) (*domain.Course, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	return f.createFn(ctx, course)
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	return f.listFn(ctx)
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	return f.updateFn(ctx, course)
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type fakeInvoiceRepo struct {
	createFn          func(ctx context.Context, inv *domain.Invoice) error
	findByInvoiceIDFn func(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	listUnpaidFn      func(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Invoice, error)
	markPaidFn        func(ctx context.Context, invoiceID string) error
	addPurchaseFn     func(ctx context.Context, userID, courseID, invoiceID string) error
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	return f.createFn(ctx, inv)
}

func (f *fakeInvoiceRepo) FindByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return f.findByInvoiceIDFn(ctx, invoiceID)
}

func (f *fakeInvoiceRepo) ListUnpaidOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Invoice, error) {
	return f.listUnpaidFn(ctx, cutoff, limit)
}

func (f *fakeInvoiceRepo) MarkPaid(ctx context.Context, invoiceID string) error {
	return f.markPaidFn(ctx, invoiceID)
}

func (f *fakeInvoiceRepo) AddPurchase(ctx context.Context, userID, courseID, invoiceID string) error {
	return f.addPurchaseFn(ctx, userID, courseID, invoiceID)
}

type fakeSender struct {
	sendFn func(ctx context.Context, to, subject, body string) error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	return f.sendFn(ctx, to, subject, body)
}

type fakeGateway struct {
	createInvoiceFn func(ctx context.Context, req payment.CreateInvoiceRequest) (*payment.CreatedInvoice, error)
	invoiceStatusFn func(ctx context.Context, invoiceID string) (string, error)
}

func (f *fakeGateway) CreateInvoice(ctx context.Context, req payment.CreateInvoiceRequest) (*payment.CreatedInvoice, error) {
	return f.createInvoiceFn(ctx, req)
}

func (f *fakeGateway) InvoiceStatus(ctx context.Context, invoiceID string) (string, error) {
	return f.invoiceStatusFn(ctx, invoiceID)
}

type fakeSharer struct {
	grantReadFn func(ctx context.Context, fileID, email string) (string, error)
}

func (f *fakeSharer) GrantRead(ctx context.Context, fileID, email string) (string, error) {
	return f.grantReadFn(ctx, fileID, email)
}

type fakeGoogleVerifier struct {
	verifyFn func(ctx context.Context, rawIDToken string) (*usecase.GoogleIdentity, error)
}

func (f *fakeGoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*usecase.GoogleIdentity, error) {
	return f.verifyFn(ctx, rawIDToken)
}
