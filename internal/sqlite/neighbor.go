package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/repository"
)

// NeighborRepository implements neighbor.Store for SQLite
type NeighborRepository struct {
	db *DB
}

// NewNeighborRepository creates a new NeighborRepository
func NewNeighborRepository(db *DB) *NeighborRepository {
	return &NeighborRepository{db: db}
}

const neighborColumns = `id, name, address, phone, status, created_at, integration_plan`

// Create inserts a new neighbor
func (r *NeighborRepository) Create(ctx context.Context, n *neighbor.Neighbor) error {
	plan, err := encodePlan(n.IntegrationPlan)
	if err != nil {
		return err
	}

	query := `INSERT INTO neighbors (` + neighborColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		n.ID,
		n.Name,
		n.Address,
		n.Phone,
		n.Status,
		n.CreatedAt,
		plan,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create neighbor: %w", err)
	}
	return nil
}

// Get retrieves a neighbor by ID
func (r *NeighborRepository) Get(ctx context.Context, id string) (*neighbor.Neighbor, error) {
	query := `SELECT ` + neighborColumns + ` FROM neighbors WHERE id = ?`

	n, err := scanNeighbor(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get neighbor: %w", err)
	}
	return n, nil
}

// Update overwrites the mutable columns of a neighbor.
// created_at is never rewritten.
func (r *NeighborRepository) Update(ctx context.Context, n *neighbor.Neighbor) error {
	plan, err := encodePlan(n.IntegrationPlan)
	if err != nil {
		return err
	}

	query := `
		UPDATE neighbors
		SET name = ?, address = ?, phone = ?, status = ?, integration_plan = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		n.Name,
		n.Address,
		n.Phone,
		n.Status,
		plan,
		n.ID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to update neighbor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete deletes a neighbor
func (r *NeighborRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM neighbors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete neighbor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns every neighbor, newest first
func (r *NeighborRepository) List(ctx context.Context) ([]neighbor.Neighbor, error) {
	query := `SELECT ` + neighborColumns + ` FROM neighbors ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbors: %w", err)
	}
	defer rows.Close()

	neighbors := []neighbor.Neighbor{}
	for rows.Next() {
		n, err := scanNeighbor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		neighbors = append(neighbors, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating neighbor rows: %w", err)
	}
	return neighbors, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNeighbor(row rowScanner) (*neighbor.Neighbor, error) {
	var n neighbor.Neighbor
	var plan sql.NullString
	if err := row.Scan(
		&n.ID,
		&n.Name,
		&n.Address,
		&n.Phone,
		&n.Status,
		&n.CreatedAt,
		&plan,
	); err != nil {
		return nil, err
	}
	if plan.Valid && plan.String != "" {
		if err := json.Unmarshal([]byte(plan.String), &n.IntegrationPlan); err != nil {
			return nil, fmt.Errorf("decoding integration plan: %w", err)
		}
	}
	return &n, nil
}

func encodePlan(steps []string) (sql.NullString, error) {
	if len(steps) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding integration plan: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
