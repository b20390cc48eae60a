package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/metrics"
	"github.com/vkravchuk/courseshop/internal/repository"
)

const staleInvoiceBatch = 100

// reconciler is the payment-usecase surface the sweeper drives.
type reconciler interface {
	StaleInvoices(ctx context.Context, limit int) ([]*domain.Invoice, error)
	Reconcile(ctx context.Context, invoiceID string) (bool, error)
}

// Sweeper runs periodic housekeeping: expired reset state is purged, and
// invoices that never delivered a webhook are re-polled against the gateway.
type Sweeper struct {
	users    repository.UserRepository
	payments reconciler
	schedule cron.Schedule
	logger   *slog.Logger
}

func NewSweeper(users repository.UserRepository, payments reconciler, cronExpr string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		users:    users,
		payments: payments,
		schedule: schedule,
		logger:   logger.With("component", "sweeper"),
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	}()

	if purged, err := s.users.PurgeExpiredResetTokens(ctx); err != nil {
		s.logger.Error("purge expired reset tokens", "error", err)
	} else if purged > 0 {
		s.logger.Info("purged expired reset tokens", "count", purged)
	}

	invoices, err := s.payments.StaleInvoices(ctx, staleInvoiceBatch)
	if err != nil {
		s.logger.Error("list stale invoices", "error", err)
		return
	}

	var reconciled int
	for _, inv := range invoices {
		paid, err := s.payments.Reconcile(ctx, inv.InvoiceID)
		if err != nil {
			s.logger.Error("reconcile invoice", "invoice_id", inv.InvoiceID, "error", err)
			continue
		}
		if paid {
			reconciled++
		}
	}
	if reconciled > 0 {
		s.logger.Info("reconciled invoices after missed callbacks", "count", reconciled)
	}
}
