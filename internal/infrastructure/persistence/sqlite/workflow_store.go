package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approvals/internal/application/port"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

// WorkflowStore persists expense workflows as JSON documents with indexed status columns
type WorkflowStore struct {
	db *DB
}

var _ port.WorkflowStore = (*WorkflowStore)(nil)

// NewWorkflowStore creates a store backed by db
func NewWorkflowStore(db *DB) *WorkflowStore {
	return &WorkflowStore{db: db}
}

// Get returns the workflow for reportID
func (s *WorkflowStore) Get(ctx context.Context, reportID string) (*entity.ExpenseWorkflow, error) {
	return s.load(ctx, s.db.getExecutor(ctx), reportID)
}

// Create inserts wf; a duplicate report or workflow ID yields port.ErrWorkflowExists
func (s *WorkflowStore) Create(ctx context.Context, wf *entity.ExpenseWorkflow) error {
	if wf == nil || wf.ReportID == "" {
		return fmt.Errorf("workflow must have a report ID")
	}

	payload, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("encode workflow %s: %w", wf.ReportID, err)
	}

	query := `
		INSERT INTO expense_workflows (
			report_id, workflow_id, status, employee_id, total_amount,
			payload, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.getExecutor(ctx).ExecContext(ctx, query,
		wf.ReportID,
		wf.ID,
		wf.Status,
		wf.ExpenseReport.EmployeeID,
		wf.ExpenseReport.TotalAmount,
		string(payload),
		formatTime(wf.CreatedAt),
		formatTime(wf.UpdatedAt),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("report %s: %w", wf.ReportID, port.ErrWorkflowExists)
		}
		s.db.logger.Error("Failed to insert workflow", zap.String("report_id", wf.ReportID), zap.Error(err))
		return fmt.Errorf("insert workflow %s: %w", wf.ReportID, err)
	}
	return nil
}

// Update loads, mutates and rewrites one workflow inside an IMMEDIATE transaction
func (s *WorkflowStore) Update(ctx context.Context, reportID string, fn port.MutateFunc) (*entity.ExpenseWorkflow, error) {
	var updated *entity.ExpenseWorkflow

	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := s.db.getExecutor(txCtx)

		wf, err := s.load(txCtx, exec, reportID)
		if err != nil {
			return err
		}
		if err := fn(wf); err != nil {
			return err
		}
		if wf.ReportID != reportID {
			return fmt.Errorf("report %s: update must not change the report ID", reportID)
		}

		payload, err := json.Marshal(wf)
		if err != nil {
			return fmt.Errorf("encode workflow %s: %w", reportID, err)
		}

		query := `
			UPDATE expense_workflows
			SET status = ?, total_amount = ?, payload = ?, updated_at = ?
			WHERE report_id = ?
		`
		if _, err := exec.ExecContext(txCtx, query,
			wf.Status,
			wf.ExpenseReport.TotalAmount,
			string(payload),
			formatTime(wf.UpdatedAt),
			reportID,
		); err != nil {
			return fmt.Errorf("update workflow %s: %w", reportID, err)
		}

		updated = wf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List returns the matching workflows in insertion order
func (s *WorkflowStore) List(ctx context.Context, filter port.WorkflowFilter) ([]*entity.ExpenseWorkflow, error) {
	rows, err := s.db.getExecutor(ctx).QueryContext(ctx, "SELECT payload FROM expense_workflows ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.ExpenseWorkflow, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		wf, err := decode(payload)
		if err != nil {
			return nil, err
		}
		if filter == nil || filter(wf) {
			out = append(out, wf)
		}
	}
	return out, rows.Err()
}

func (s *WorkflowStore) load(ctx context.Context, exec executor, reportID string) (*entity.ExpenseWorkflow, error) {
	var payload string
	err := exec.QueryRowContext(ctx, "SELECT payload FROM expense_workflows WHERE report_id = ?", reportID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", reportID, port.ErrWorkflowNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", reportID, err)
	}
	return decode(payload)
}

func decode(payload string) (*entity.ExpenseWorkflow, error) {
	var wf entity.ExpenseWorkflow
	if err := json.Unmarshal([]byte(payload), &wf); err != nil {
		return nil, fmt.Errorf("decode workflow: %w", err)
	}
	return &wf, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
