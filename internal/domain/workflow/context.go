package workflow

import (
	"context"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

type approvalKey struct{}

type policyResultKey struct{}

// ApprovalInput carries the facts approval guards decide on
type ApprovalInput struct {
	Role        entity.ApproverRole
	TotalAmount float64
}

// WithApproval attaches the acting role and report amount to ctx
func WithApproval(ctx context.Context, role entity.ApproverRole, totalAmount float64) context.Context {
	return context.WithValue(ctx, approvalKey{}, ApprovalInput{Role: role, TotalAmount: totalAmount})
}

// ApprovalFrom extracts the approval input set by WithApproval
func ApprovalFrom(ctx context.Context) (ApprovalInput, bool) {
	in, ok := ctx.Value(approvalKey{}).(ApprovalInput)
	return in, ok
}

// WithPolicyResult records whether the policy check found no violations
func WithPolicyResult(ctx context.Context, passed bool) context.Context {
	return context.WithValue(ctx, policyResultKey{}, passed)
}

// PolicyPassedFrom extracts the policy outcome set by WithPolicyResult
func PolicyPassedFrom(ctx context.Context) (passed bool, ok bool) {
	passed, ok = ctx.Value(policyResultKey{}).(bool)
	return passed, ok
}
