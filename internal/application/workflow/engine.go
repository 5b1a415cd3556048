package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/policy"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// Transition records one applied state change
type Transition struct {
	From    domainwf.State
	To      domainwf.State
	Trigger domainwf.Trigger
}

// WorkflowEngine applies state machine transitions to expense workflows
type WorkflowEngine interface {
	// Fire applies trigger to wf in place. On error wf is left untouched.
	Fire(ctx context.Context, wf *entity.ExpenseWorkflow, trigger domainwf.Trigger) (Transition, error)

	// CanFire reports whether trigger is configured for the workflow's current state
	CanFire(wf *entity.ExpenseWorkflow, trigger domainwf.Trigger) bool

	// PermittedTriggers lists the triggers configured for the workflow's current state
	PermittedTriggers(wf *entity.ExpenseWorkflow) []domainwf.Trigger
}

type engineImpl struct {
	builder domainwf.StateMachineBuilder
	now     func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithClock overrides the time source used for UpdatedAt
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a workflow engine for the given policy rules
func NewEngine(rules policy.Rules, opts ...EngineOption) WorkflowEngine {
	e := &engineImpl{
		builder: NewExpenseBuilder(rules),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engineImpl) machineFor(wf *entity.ExpenseWorkflow) (domainwf.StateMachine, error) {
	current := domainwf.State(wf.Status)
	if !current.IsValid() {
		return nil, fmt.Errorf("%w: %q on workflow %s", domainwf.ErrInvalidState, wf.Status, wf.ID)
	}
	return e.builder.Build(current), nil
}

func (e *engineImpl) Fire(ctx context.Context, wf *entity.ExpenseWorkflow, trigger domainwf.Trigger) (Transition, error) {
	machine, err := e.machineFor(wf)
	if err != nil {
		return Transition{}, err
	}

	from := machine.State()
	if err := machine.Fire(ctx, trigger); err != nil {
		return Transition{}, err
	}
	to := machine.State()

	wf.Status = to.String()
	wf.ExpenseReport.Status = to.ReportStatus()
	wf.UpdatedAt = e.now()

	return Transition{From: from, To: to, Trigger: trigger}, nil
}

func (e *engineImpl) CanFire(wf *entity.ExpenseWorkflow, trigger domainwf.Trigger) bool {
	machine, err := e.machineFor(wf)
	if err != nil {
		return false
	}
	return machine.CanFire(trigger)
}

func (e *engineImpl) PermittedTriggers(wf *entity.ExpenseWorkflow) []domainwf.Trigger {
	machine, err := e.machineFor(wf)
	if err != nil {
		return []domainwf.Trigger{}
	}
	return machine.PermittedTriggers()
}
