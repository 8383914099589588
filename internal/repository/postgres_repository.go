package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helphub-ai/support-intake/internal/domain"
)

const ticketColumns = `id, user_id, username, issue, summary, category, priority, sentiment, status, resolution, assigned_to, created_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository instantiates the remote table-store backend.
func NewPostgresRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, user_id, username, issue, summary, category, priority, sentiment, status, resolution, assigned_to, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.Username,
		ticket.Issue,
		ticket.Summary,
		ticket.Category,
		ticket.Priority,
		ticket.Sentiment,
		ticket.Status,
		ticket.Resolution,
		ticket.AssignedTo,
		ticket.CreatedAt,
	)
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Username,
		&ticket.Issue,
		&ticket.Summary,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Sentiment,
		&ticket.Status,
		&ticket.Resolution,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, resolution string) (bool, error) {
	var cmd pgconn.CommandTag
	var err error
	if resolution != "" {
		cmd, err = r.pool.Exec(ctx, `UPDATE tickets SET status=$1, resolution=$2 WHERE id=$3`, status, resolution, id)
	} else {
		cmd, err = r.pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, status, id)
	}
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepository) Assign(ctx context.Context, id, assignedTo string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET assigned_to=$1 WHERE id=$2`, assignedTo, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepository) List(ctx context.Context, status domain.TicketStatus, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	var (
		query string
		args  []any
	)
	if status != "" {
		query = fmt.Sprintf(`SELECT %s FROM tickets WHERE status=$1 ORDER BY created_at DESC LIMIT %d`, ticketColumns, limit)
		args = []any{status}
	} else {
		query = fmt.Sprintf(`SELECT %s FROM tickets ORDER BY created_at DESC LIMIT %d`, ticketColumns, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE user_id=$1 ORDER BY created_at DESC LIMIT %d`, ticketColumns, limit)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresRepository) Search(ctx context.Context, term string, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	search := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE LOWER(issue) LIKE $1 OR LOWER(summary) LIKE $1 OR LOWER(id) LIKE $1
        ORDER BY created_at DESC LIMIT %d`, ticketColumns, limit)
	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE created_at >= $1 AND created_at <= $2
        ORDER BY created_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresRepository) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	limit = normalizeLimit(limit)
	query := fmt.Sprintf(`
        SELECT id, status, priority, category, created_at, username
        FROM tickets ORDER BY created_at DESC LIMIT %d`, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Status,
			&entry.Priority,
			&entry.Category,
			&entry.CreatedAt,
			&entry.Username,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepository) Close() {
	r.pool.Close()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Username,
			&ticket.Issue,
			&ticket.Summary,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Sentiment,
			&ticket.Status,
			&ticket.Resolution,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
