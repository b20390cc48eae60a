package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkravchuk/courseshop/internal/domain"
)

const invoiceColumns = `invoice_id, user_id, course_id, status, reference,
	created_at, paid_at`

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (invoice_id, user_id, course_id, status, reference)
		VALUES ($1, $2, $3, $4, $5)`,
		inv.InvoiceID, inv.UserID, inv.CourseID, domain.InvoiceCreated, inv.Reference,
	)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_id = $1`, invoiceID)
	return scanInvoice(row)
}

func (r *InvoiceRepository) ListUnpaidOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE status = 'created' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, invoiceID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status = 'paid', paid_at = NOW()
		WHERE invoice_id = $1 AND status <> 'paid'`, invoiceID)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) AddPurchase(ctx context.Context, userID, courseID, invoiceID string) error {
	// ON CONFLICT DO NOTHING keeps webhook replays idempotent.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO purchases (user_id, course_id, invoice_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING`,
		userID, courseID, invoiceID,
	)
	if err != nil {
		return fmt.Errorf("add purchase: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID, &inv.UserID, &inv.CourseID, &inv.Status,
		&inv.Reference, &inv.CreatedAt, &inv.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}
