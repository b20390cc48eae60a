package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/transport/http/handler"
)

type fakePayments struct {
	createInvoiceFn   func(ctx context.Context, user *domain.User, courseID string) (string, error)
	handleCallbackFn  func(ctx context.Context, invoiceID, status string) (*domain.Invoice, error)
	grantFileAccessFn func(ctx context.Context, user *domain.User, courseID string) (string, error)
}

func (f *fakePayments) CreateInvoice(ctx context.Context, user *domain.User, courseID string) (string, error) {
	return f.createInvoiceFn(ctx, user, courseID)
}

func (f *fakePayments) HandleCallback(ctx context.Context, invoiceID, status string) (*domain.Invoice, error) {
	return f.handleCallbackFn(ctx, invoiceID, status)
}

func (f *fakePayments) GrantFileAccess(ctx context.Context, user *domain.User, courseID string) (string, error) {
	return f.grantFileAccessFn(ctx, user, courseID)
}

// asUser stands in for the auth middleware on protected routes.
func asUser(user *domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func paymentRouter(payments *fakePayments, user *domain.User) *gin.Engine {
	h := handler.NewPaymentHandler(payments, discardLogger())
	r := gin.New()
	r.POST("/courses/:id/invoice", asUser(user), h.CreateInvoice)
	r.POST("/courses/:id/access", asUser(user), h.GrantAccess)
	r.POST("/payments/callback", h.Callback)
	return r
}

func TestCreateInvoice(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "olha@example.com"}
	payments := &fakePayments{
		createInvoiceFn: func(_ context.Context, got *domain.User, courseID string) (string, error) {
			if got.ID != "user-1" || courseID != "course-1" {
				t.Fatalf("CreateInvoice(%q, %q)", got.ID, courseID)
			}
			return "https://pay.example.com/inv-42", nil
		},
	}
	r := paymentRouter(payments, user)

	w := doJSON(t, r, http.MethodPost, "/courses/course-1/invoice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["pageUrl"] != "https://pay.example.com/inv-42" {
		t.Fatalf("pageUrl = %v", body["pageUrl"])
	}
}

func TestCreateInvoiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown course", domain.ErrCourseNotFound, http.StatusNotFound},
		{"already owned", domain.ErrCourseAlreadyOwned, http.StatusConflict},
		{"gateway down", domain.ErrGateway, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &fakePayments{
				createInvoiceFn: func(_ context.Context, _ *domain.User, _ string) (string, error) {
					return "", tt.err
				},
			}
			r := paymentRouter(payments, &domain.User{ID: "user-1"})

			w := doJSON(t, r, http.MethodPost, "/courses/course-1/invoice", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCallbackPaid(t *testing.T) {
	payments := &fakePayments{
		handleCallbackFn: func(_ context.Context, invoiceID, status string) (*domain.Invoice, error) {
			if invoiceID != "inv-42" || status != "success" {
				t.Fatalf("HandleCallback(%q, %q)", invoiceID, status)
			}
			return &domain.Invoice{InvoiceID: "inv-42", UserID: "user-1", CourseID: "course-1"}, nil
		},
	}
	r := paymentRouter(payments, nil)

	w := doJSON(t, r, http.MethodPost, "/payments/callback",
		`{"invoiceId":"inv-42","status":"success"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["invoiceId"] != "inv-42" || body["courseId"] != "course-1" || body["userId"] != "user-1" {
		t.Fatalf("body = %v", body)
	}
}

// A non-success push answers 202: the payment is still in flight and the
// gateway will deliver a final status later.
func TestCallbackPending(t *testing.T) {
	payments := &fakePayments{
		handleCallbackFn: func(_ context.Context, _, _ string) (*domain.Invoice, error) {
			return nil, domain.ErrInvoiceNotPaid
		},
	}
	r := paymentRouter(payments, nil)

	w := doJSON(t, r, http.MethodPost, "/payments/callback",
		`{"invoiceId":"inv-42","status":"processing"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
}

func TestCallbackMissingInvoiceID(t *testing.T) {
	r := paymentRouter(&fakePayments{}, nil)

	w := doJSON(t, r, http.MethodPost, "/payments/callback", `{"status":"success"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallbackUnknownInvoice(t *testing.T) {
	payments := &fakePayments{
		handleCallbackFn: func(_ context.Context, _, _ string) (*domain.Invoice, error) {
			return nil, domain.ErrInvoiceNotFound
		},
	}
	r := paymentRouter(payments, nil)

	w := doJSON(t, r, http.MethodPost, "/payments/callback",
		`{"invoiceId":"forged","status":"success"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGrantAccess(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "olha@example.com"}
	payments := &fakePayments{
		grantFileAccessFn: func(_ context.Context, got *domain.User, courseID string) (string, error) {
			if got.Email != "olha@example.com" || courseID != "course-1" {
				t.Fatalf("GrantFileAccess(%q, %q)", got.Email, courseID)
			}
			return "perm-1", nil
		},
	}
	r := paymentRouter(payments, user)

	w := doJSON(t, r, http.MethodPost, "/courses/course-1/access", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["id"] != "perm-1" {
		t.Fatalf("id = %v", body["id"])
	}
}
