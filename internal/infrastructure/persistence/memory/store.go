// Package memory provides a process-local WorkflowStore
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/garyjia/expense-approvals/internal/application/port"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

// Store keeps workflows in a map guarded by a mutex. Callers always receive copies.
type Store struct {
	mu        sync.Mutex
	workflows map[string]*entity.ExpenseWorkflow
	order     []string
}

var _ port.WorkflowStore = (*Store)(nil)

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{workflows: make(map[string]*entity.ExpenseWorkflow)}
}

// Get returns a copy of the workflow for reportID
func (s *Store) Get(ctx context.Context, reportID string) (*entity.ExpenseWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.workflows[reportID]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", reportID, port.ErrWorkflowNotFound)
	}
	return wf.Clone(), nil
}

// Create stores a copy of wf
func (s *Store) Create(ctx context.Context, wf *entity.ExpenseWorkflow) error {
	if wf == nil || wf.ReportID == "" {
		return fmt.Errorf("workflow must have a report ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workflows[wf.ReportID]; exists {
		return fmt.Errorf("report %s: %w", wf.ReportID, port.ErrWorkflowExists)
	}
	s.workflows[wf.ReportID] = wf.Clone()
	s.order = append(s.order, wf.ReportID)
	return nil
}

// Update runs fn on a copy while holding the lock and commits the copy only when fn succeeds
func (s *Store) Update(ctx context.Context, reportID string, fn port.MutateFunc) (*entity.ExpenseWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.workflows[reportID]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", reportID, port.ErrWorkflowNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if working.ReportID != reportID {
		return nil, fmt.Errorf("report %s: update must not change the report ID", reportID)
	}

	s.workflows[reportID] = working
	return working.Clone(), nil
}

// List returns copies of the matching workflows in insertion order
func (s *Store) List(ctx context.Context, filter port.WorkflowFilter) ([]*entity.ExpenseWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.ExpenseWorkflow, 0, len(s.order))
	for _, id := range s.order {
		wf := s.workflows[id]
		if filter == nil || filter(wf) {
			out = append(out, wf.Clone())
		}
	}
	return out, nil
}

// Len returns the number of stored workflows
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workflows)
}
