// Package audit records admin review actions. The ledger sheet only keeps the
// latest status of each row, so this trail is the only record of who changed
// what and when.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// Entry is one recorded status change.
type Entry struct {
	ID         int64          `json:"id"`
	RowIndex   int            `json:"rowIndex"`
	FamilyName string         `json:"familyName"`
	OldStatus  workflow.State `json:"oldStatus"`
	NewStatus  workflow.State `json:"newStatus"`
	Operator   string         `json:"operator"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Repository persists review audit entries.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	ListByRowIndex(ctx context.Context, rowIndex int) ([]Entry, error)
}

// SQLRepository implements Repository on SQLite.
type SQLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a new audit repository.
func NewRepository(db *sql.DB, logger *zap.Logger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts an audit entry for a confirmed status change.
func (r *SQLRepository) Record(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO review_audit (row_index, family_name, old_status, new_status, operator)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.RowIndex,
		entry.FamilyName,
		entry.OldStatus.String(),
		entry.NewStatus.String(),
		entry.Operator,
	)
	if err != nil {
		r.logger.Error("Failed to record audit entry", zap.Error(err))
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// ListByRowIndex returns the audit trail of one ledger row, oldest first.
func (r *SQLRepository) ListByRowIndex(ctx context.Context, rowIndex int) ([]Entry, error) {
	query := `
		SELECT id, row_index, family_name, old_status, new_status, operator, created_at
		FROM review_audit
		WHERE row_index = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, rowIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var oldStatus, newStatus string
		if err := rows.Scan(&e.ID, &e.RowIndex, &e.FamilyName, &oldStatus, &newStatus, &e.Operator, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.OldStatus = workflow.State(oldStatus)
		e.NewStatus = workflow.State(newStatus)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
