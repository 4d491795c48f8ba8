package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tangimds/EMS/internal/experiment/domain"
)

const experimentColumns = `id, owner_id, title, description, research_focus, status, collected_data, start_date, end_date, attachments, created_at, updated_at`

// DB is the subset of *pgxpool.Pool the repository uses; pgxmock pools
// satisfy it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR research_focus ILIKE $%d)", n, n, n)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []domain.Experiment
	for rows.Next() {
		experiment, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, *experiment)
	}

	return experiments, rows.Err()
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE id = $1 AND owner_id = $2 LIMIT 1;`
	row := r.db.QueryRow(ctx, query, id, ownerID)

	experiment, err := scanExperiment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return experiment, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *domain.Experiment) error {
	attachments, err := marshalAttachments(e.Attachments)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO experiments (id, owner_id, title, description, research_focus, status,
            collected_data, start_date, end_date, attachments, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, e.ID, e.OwnerID, e.Title, e.Description, e.ResearchFocus, string(e.Status),
		e.CollectedData, e.StartDate, e.EndDate, attachments, e.CreatedAt, e.UpdatedAt)

	return err
}

// Update rewrites every mutable column; owner_id and created_at are never
// part of the SET list.
func (r *PostgresRepository) Update(ctx context.Context, e *domain.Experiment) error {
	attachments, err := marshalAttachments(e.Attachments)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE experiments
		SET title = $3, description = $4, research_focus = $5, status = $6,
		    collected_data = $7, start_date = $8, end_date = $9, attachments = $10,
		    updated_at = $11
		WHERE id = $1 AND owner_id = $2
	`, e.ID, e.OwnerID, e.Title, e.Description, e.ResearchFocus, string(e.Status),
		e.CollectedData, e.StartDate, e.EndDate, attachments, e.UpdatedAt)

	return err
}

func (r *PostgresRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM experiments WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete experiment: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func marshalAttachments(attachments []domain.Attachment) ([]byte, error) {
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	data, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attachments: %w", err)
	}
	return data, nil
}

func scanExperiment(row pgx.Row) (*domain.Experiment, error) {
	var (
		e           domain.Experiment
		status      string
		attachments []byte
	)

	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.ResearchFocus, &status,
		&e.CollectedData, &e.StartDate, &e.EndDate, &attachments, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Status = domain.Status(status)
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &e.Attachments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
		}
	}

	return &e, nil
}
