package port

import (
	"context"
	"errors"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

var (
	// ErrWorkflowNotFound is returned when no workflow is stored for a report ID
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowExists is returned when creating a workflow for a report ID already in use
	ErrWorkflowExists = errors.New("workflow already exists")
)

// WorkflowFilter selects workflows during List. A nil filter matches everything.
type WorkflowFilter func(wf *entity.ExpenseWorkflow) bool

// MutateFunc changes a workflow in place during Update. Returning an error
// discards every change made by the function.
type MutateFunc func(wf *entity.ExpenseWorkflow) error

// WorkflowStore persists expense workflows keyed by report ID
type WorkflowStore interface {
	// Get returns a copy of the workflow for reportID or ErrWorkflowNotFound
	Get(ctx context.Context, reportID string) (*entity.ExpenseWorkflow, error)

	// Create stores a new workflow; it fails with ErrWorkflowExists on a duplicate report ID
	Create(ctx context.Context, wf *entity.ExpenseWorkflow) error

	// Update performs an atomic read-modify-write of one workflow and returns the committed copy
	Update(ctx context.Context, reportID string, fn MutateFunc) (*entity.ExpenseWorkflow, error)

	// List returns copies of the matching workflows in insertion order
	List(ctx context.Context, filter WorkflowFilter) ([]*entity.ExpenseWorkflow, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
