package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/policy"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

func approvalCtx(role entity.ApproverRole, total float64) context.Context {
	return domainwf.WithApproval(context.Background(), role, total)
}

// Test factory

func TestBuildExpenseStateMachine(t *testing.T) {
	rules := policy.DefaultRules()

	tests := []struct {
		name         string
		initialState domainwf.State
		ctx          context.Context
		trigger      domainwf.Trigger
		wantState    domainwf.State
		wantErr      error
	}{
		{
			name:         "DRAFT -> SUBMITTED on SUBMIT",
			initialState: domainwf.StateDraft,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerSubmit,
			wantState:    domainwf.StateSubmitted,
		},
		{
			name:         "SUBMITTED -> POLICY_CHECK_PENDING on START_POLICY_CHECK",
			initialState: domainwf.StateSubmitted,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerStartPolicyCheck,
			wantState:    domainwf.StatePolicyCheckPending,
		},
		{
			name:         "POLICY_CHECK_PENDING -> COMPLETED when policy passed",
			initialState: domainwf.StatePolicyCheckPending,
			ctx:          domainwf.WithPolicyResult(context.Background(), true),
			trigger:      domainwf.TriggerCompletePolicyCheck,
			wantState:    domainwf.StatePolicyCheckCompleted,
		},
		{
			name:         "POLICY_CHECK_PENDING -> VIOLATION_DETECTED when policy failed",
			initialState: domainwf.StatePolicyCheckPending,
			ctx:          domainwf.WithPolicyResult(context.Background(), false),
			trigger:      domainwf.TriggerCompletePolicyCheck,
			wantState:    domainwf.StatePolicyViolationDetected,
		},
		{
			name:         "POLICY_CHECK_PENDING without outcome fails guard",
			initialState: domainwf.StatePolicyCheckPending,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerCompletePolicyCheck,
			wantState:    domainwf.StatePolicyCheckPending,
			wantErr:      domainwf.ErrGuardFailed,
		},
		{
			name:         "manager approval of 1500 escalates to finance",
			initialState: domainwf.StatePolicyViolationDetected,
			ctx:          approvalCtx(entity.RoleManager, 1500),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateFinanceApprovalPending,
		},
		{
			name:         "manager approval of 1000 is final",
			initialState: domainwf.StatePolicyCheckCompleted,
			ctx:          approvalCtx(entity.RoleManager, 1000),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateApproved,
		},
		{
			name:         "finance approval of 1500 is final",
			initialState: domainwf.StatePolicyCheckCompleted,
			ctx:          approvalCtx(entity.RoleFinance, 1500),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateApproved,
		},
		{
			name:         "finance approval of 6000 escalates to admin",
			initialState: domainwf.StateFinanceApprovalPending,
			ctx:          approvalCtx(entity.RoleFinance, 6000),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateAdminApprovalPending,
		},
		{
			name:         "manager cannot act on finance stage",
			initialState: domainwf.StateFinanceApprovalPending,
			ctx:          approvalCtx(entity.RoleManager, 1500),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateFinanceApprovalPending,
			wantErr:      domainwf.ErrGuardFailed,
		},
		{
			name:         "manager cannot reject on admin stage",
			initialState: domainwf.StateAdminApprovalPending,
			ctx:          approvalCtx(entity.RoleManager, 6000),
			trigger:      domainwf.TriggerReject,
			wantState:    domainwf.StateAdminApprovalPending,
			wantErr:      domainwf.ErrGuardFailed,
		},
		{
			name:         "admin approves admin stage",
			initialState: domainwf.StateAdminApprovalPending,
			ctx:          approvalCtx(entity.RoleAdmin, 6000),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateApproved,
		},
		{
			name:         "admin may act on finance stage",
			initialState: domainwf.StateFinanceApprovalPending,
			ctx:          approvalCtx(entity.RoleAdmin, 1500),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateApproved,
		},
		{
			name:         "reject from submitted",
			initialState: domainwf.StateSubmitted,
			ctx:          approvalCtx(entity.RoleManager, 30),
			trigger:      domainwf.TriggerReject,
			wantState:    domainwf.StateRejected,
		},
		{
			name:         "request info from finance stage",
			initialState: domainwf.StateFinanceApprovalPending,
			ctx:          approvalCtx(entity.RoleFinance, 1500),
			trigger:      domainwf.TriggerRequestInfo,
			wantState:    domainwf.StateRequiresAdditionalInfo,
		},
		{
			name:         "revalidate after info requested",
			initialState: domainwf.StateRequiresAdditionalInfo,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerStartPolicyCheck,
			wantState:    domainwf.StatePolicyCheckPending,
		},
		{
			name:         "APPROVED -> PAID on PAY",
			initialState: domainwf.StateApproved,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerPay,
			wantState:    domainwf.StatePaid,
		},
		{
			name:         "pay before approval is invalid",
			initialState: domainwf.StatePolicyCheckCompleted,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerPay,
			wantState:    domainwf.StatePolicyCheckCompleted,
			wantErr:      domainwf.ErrInvalidTransition,
		},
		{
			name:         "approve after approval is invalid",
			initialState: domainwf.StateApproved,
			ctx:          approvalCtx(entity.RoleAdmin, 10),
			trigger:      domainwf.TriggerApprove,
			wantState:    domainwf.StateApproved,
			wantErr:      domainwf.ErrInvalidTransition,
		},
		{
			name:         "validate after approval is invalid",
			initialState: domainwf.StateApproved,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerStartPolicyCheck,
			wantState:    domainwf.StateApproved,
			wantErr:      domainwf.ErrInvalidTransition,
		},
		{
			name:         "paid is terminal",
			initialState: domainwf.StatePaid,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerPay,
			wantState:    domainwf.StatePaid,
			wantErr:      domainwf.ErrInvalidTransition,
		},
		{
			name:         "decision without approver fails guard",
			initialState: domainwf.StatePolicyCheckCompleted,
			ctx:          context.Background(),
			trigger:      domainwf.TriggerReject,
			wantState:    domainwf.StatePolicyCheckCompleted,
			wantErr:      domainwf.ErrGuardFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := BuildExpenseStateMachine(tt.initialState, rules)

			err := machine.Fire(tt.ctx, tt.trigger)

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if machine.State() != tt.wantState {
				t.Errorf("expected state %s, got %s", tt.wantState, machine.State())
			}
		})
	}
}

func TestBuildExpenseStateMachine_CustomRules(t *testing.T) {
	rules := policy.DefaultRules()
	rules.ManagerApprovalLimit = 200

	machine := BuildExpenseStateMachine(domainwf.StatePolicyCheckCompleted, rules)
	if err := machine.Fire(approvalCtx(entity.RoleManager, 250), domainwf.TriggerApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if machine.State() != domainwf.StateFinanceApprovalPending {
		t.Errorf("expected escalation with lowered manager limit, got %s", machine.State())
	}
}

// Test engine

func newWorkflow(status domainwf.State) *entity.ExpenseWorkflow {
	return &entity.ExpenseWorkflow{
		ID:       "wf-1",
		ReportID: "report-1",
		Status:   status.String(),
		ExpenseReport: entity.ExpenseReport{
			ID:          "report-1",
			TotalAmount: 1800,
			Status:      status.ReportStatus(),
		},
	}
}

func TestEngineFire(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	engine := NewEngine(policy.DefaultRules(), WithClock(func() time.Time { return fixed }))

	t.Run("updates both statuses and timestamp", func(t *testing.T) {
		wf := newWorkflow(domainwf.StatePolicyViolationDetected)

		tr, err := engine.Fire(approvalCtx(entity.RoleManager, 1800), wf, domainwf.TriggerApprove)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tr.From != domainwf.StatePolicyViolationDetected || tr.To != domainwf.StateFinanceApprovalPending {
			t.Errorf("unexpected transition %+v", tr)
		}
		if tr.Trigger != domainwf.TriggerApprove {
			t.Errorf("expected trigger approve, got %s", tr.Trigger)
		}
		if wf.Status != "finance_approval_pending" {
			t.Errorf("workflow status = %s", wf.Status)
		}
		if wf.ExpenseReport.Status != entity.ReportStatusPendingFinanceApproval {
			t.Errorf("report status = %s", wf.ExpenseReport.Status)
		}
		if !wf.UpdatedAt.Equal(fixed) {
			t.Errorf("UpdatedAt = %v, want %v", wf.UpdatedAt, fixed)
		}
	})

	t.Run("leaves workflow untouched on rejected transition", func(t *testing.T) {
		wf := newWorkflow(domainwf.StateSubmitted)

		_, err := engine.Fire(context.Background(), wf, domainwf.TriggerPay)
		if !errors.Is(err, domainwf.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if wf.Status != "submitted" || !wf.UpdatedAt.IsZero() {
			t.Errorf("workflow mutated on failure: %+v", wf)
		}
	})

	t.Run("rejects unknown stored status", func(t *testing.T) {
		wf := newWorkflow(domainwf.StateSubmitted)
		wf.Status = "archived"

		_, err := engine.Fire(context.Background(), wf, domainwf.TriggerStartPolicyCheck)
		if !errors.Is(err, domainwf.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestEngineCanFire(t *testing.T) {
	engine := NewEngine(policy.DefaultRules())

	if !engine.CanFire(newWorkflow(domainwf.StateApproved), domainwf.TriggerPay) {
		t.Error("approved workflow should accept pay")
	}
	if engine.CanFire(newWorkflow(domainwf.StatePaid), domainwf.TriggerPay) {
		t.Error("paid workflow should not accept pay")
	}

	bad := newWorkflow(domainwf.StateSubmitted)
	bad.Status = ""
	if engine.CanFire(bad, domainwf.TriggerStartPolicyCheck) {
		t.Error("invalid status should not accept triggers")
	}
}

func TestEnginePermittedTriggers(t *testing.T) {
	engine := NewEngine(policy.DefaultRules())

	got := engine.PermittedTriggers(newWorkflow(domainwf.StatePolicyCheckCompleted))
	want := []domainwf.Trigger{
		domainwf.TriggerApprove,
		domainwf.TriggerReject,
		domainwf.TriggerRequestInfo,
		domainwf.TriggerStartPolicyCheck,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trigger %d = %s, want %s", i, got[i], want[i])
		}
	}

	if triggers := engine.PermittedTriggers(newWorkflow(domainwf.StateRejected)); len(triggers) != 0 {
		t.Errorf("terminal state should have no triggers, got %v", triggers)
	}
}
