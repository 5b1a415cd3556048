package workflow

import (
	"context"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/policy"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// reviewStates accept a decision from any approver role
var reviewStates = []domainwf.State{
	domainwf.StateSubmitted,
	domainwf.StatePolicyCheckCompleted,
	domainwf.StatePolicyViolationDetected,
	domainwf.StateRequiresAdditionalInfo,
}

// validatableStates may (re)run the policy check
var validatableStates = []domainwf.State{
	domainwf.StateSubmitted,
	domainwf.StatePolicyCheckCompleted,
	domainwf.StatePolicyViolationDetected,
	domainwf.StateRequiresAdditionalInfo,
}

// pendingStages are the escalation stages and the lowest role allowed to act in each
var pendingStages = map[domainwf.State]entity.ApproverRole{
	domainwf.StateManagerApprovalPending: entity.RoleManager,
	domainwf.StateFinanceApprovalPending: entity.RoleFinance,
	domainwf.StateAdminApprovalPending:   entity.RoleAdmin,
}

// NewExpenseBuilder returns a builder configured with the expense approval transition table.
// Approval guards read the acting role and report total from the context (see domainwf.WithApproval).
func NewExpenseBuilder(rules policy.Rules) domainwf.StateMachineBuilder {
	builder := domainwf.NewBuilder()

	// DRAFT state transitions
	builder.Configure(domainwf.StateDraft).
		Permit(domainwf.TriggerSubmit, domainwf.StateSubmitted)

	for _, state := range validatableStates {
		builder.Configure(state).
			Permit(domainwf.TriggerStartPolicyCheck, domainwf.StatePolicyCheckPending)
	}

	// POLICY_CHECK_PENDING resolves on the validator outcome
	builder.Configure(domainwf.StatePolicyCheckPending).
		PermitIf(domainwf.TriggerCompletePolicyCheck, domainwf.StatePolicyCheckCompleted, policyPassed(true)).
		PermitIf(domainwf.TriggerCompletePolicyCheck, domainwf.StatePolicyViolationDetected, policyPassed(false))

	for _, state := range reviewStates {
		configureDecisions(builder.Configure(state), rules, nil)
	}

	for state, stage := range pendingStages {
		configureDecisions(builder.Configure(state), rules, roleAtLeast(stage))
	}

	// APPROVED state transitions
	builder.Configure(domainwf.StateApproved).
		Permit(domainwf.TriggerPay, domainwf.StatePaid)

	// REJECTED and PAID are terminal states - no outgoing transitions

	return builder
}

// BuildExpenseStateMachine creates a state machine positioned at initialState
func BuildExpenseStateMachine(initialState domainwf.State, rules policy.Rules) domainwf.StateMachine {
	return NewExpenseBuilder(rules).Build(initialState)
}

// configureDecisions wires approve/reject/request_info for a state. Approve
// guards are ordered: escalate to finance, escalate to admin, otherwise approve.
func configureDecisions(cfg domainwf.StateConfiguration, rules policy.Rules, allowed domainwf.GuardFunc) {
	cfg.
		PermitIf(domainwf.TriggerApprove, domainwf.StateFinanceApprovalPending,
			domainwf.All(allowed, escalatesTo(rules, entity.RoleFinance))).
		PermitIf(domainwf.TriggerApprove, domainwf.StateAdminApprovalPending,
			domainwf.All(allowed, escalatesTo(rules, entity.RoleAdmin))).
		PermitIf(domainwf.TriggerApprove, domainwf.StateApproved,
			domainwf.All(allowed, noEscalation(rules))).
		PermitIf(domainwf.TriggerReject, domainwf.StateRejected, domainwf.All(allowed, hasApprover)).
		PermitIf(domainwf.TriggerRequestInfo, domainwf.StateRequiresAdditionalInfo, domainwf.All(allowed, hasApprover))
}

func policyPassed(want bool) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		passed, ok := domainwf.PolicyPassedFrom(ctx)
		return ok && passed == want
	}
}

func hasApprover(ctx context.Context) bool {
	in, ok := domainwf.ApprovalFrom(ctx)
	return ok && in.Role.IsValid()
}

func roleAtLeast(stage entity.ApproverRole) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		in, ok := domainwf.ApprovalFrom(ctx)
		return ok && in.Role.AtLeast(stage)
	}
}

func escalatesTo(rules policy.Rules, target entity.ApproverRole) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		in, ok := domainwf.ApprovalFrom(ctx)
		if !ok || !in.Role.IsValid() {
			return false
		}
		next, escalate := rules.NextApprover(in.Role, in.TotalAmount)
		return escalate && next == target
	}
}

func noEscalation(rules policy.Rules) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		in, ok := domainwf.ApprovalFrom(ctx)
		if !ok || !in.Role.IsValid() {
			return false
		}
		_, escalate := rules.NextApprover(in.Role, in.TotalAmount)
		return !escalate
	}
}
