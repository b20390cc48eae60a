package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/transport/http/middleware"
)

type paymentUsecaser interface {
	CreateInvoice(ctx context.Context, user *domain.User, courseID string) (string, error)
	HandleCallback(ctx context.Context, invoiceID, status string) (*domain.Invoice, error)
	GrantFileAccess(ctx context.Context, user *domain.User, courseID string) (string, error)
}

type PaymentHandler struct {
	payments paymentUsecaser
	logger   *slog.Logger
}

func NewPaymentHandler(payments paymentUsecaser, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger.With("component", "payment_handler")}
}

// POST /courses/:id/invoice  (protected)
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pageURL, err := h.payments.CreateInvoice(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create invoice",
			"user_id", user.ID, "course_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pageUrl": pageURL})
}

type callbackRequest struct {
	InvoiceID string `json:"invoiceId" binding:"required"`
	Status    string `json:"status"`
}

// POST /payments/callback
// The gateway pushes invoice status here, at-least-once. Replays of a paid
// invoice are no-ops and still answer 200.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.payments.HandleCallback(c.Request.Context(), req.InvoiceID, req.Status)
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "payment callback",
			"invoice_id", req.InvoiceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoiceId": inv.InvoiceID,
		"courseId":  inv.CourseID,
		"userId":    inv.UserID,
	})
}

// POST /courses/:id/access  (protected)
// Shares the course file with the requesting user's email.
func (h *PaymentHandler) GrantAccess(c *gin.Context) {
	user := middleware.CurrentUser(c)

	grantID, err := h.payments.GrantFileAccess(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "grant file access",
			"user_id", user.ID, "course_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": grantID})
}
