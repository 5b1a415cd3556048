// Package policy holds the expense policy: spending thresholds, the report
// validator and the approval router. Everything here is pure.
package policy

import "github.com/garyjia/expense-approvals/internal/domain/entity"

// Rules are the thresholds the validator and router evaluate against
type Rules struct {
	// ItemLimit is the largest single item amount allowed without an exceeds_limit violation
	ItemLimit float64
	// ReceiptThreshold is the item amount above which a receipt is mandatory
	ReceiptThreshold float64
	// ManagerThreshold is the report total above which a manager must approve
	ManagerThreshold float64
	// ManagerApprovalLimit is the largest total a manager can approve alone
	ManagerApprovalLimit float64
	// FinanceApprovalLimit is the largest total finance can approve alone
	FinanceApprovalLimit float64
	// CategoryLimits optionally caps single items per category
	CategoryLimits map[string]float64
}

// DefaultRules returns the standard company thresholds
func DefaultRules() Rules {
	return Rules{
		ItemLimit:            1000,
		ReceiptThreshold:     25,
		ManagerThreshold:     50,
		ManagerApprovalLimit: 1000,
		FinanceApprovalLimit: 5000,
	}
}

// NextApprover reports whether an approval by role must escalate for a report
// totalling totalAmount, and to whom.
func (r Rules) NextApprover(role entity.ApproverRole, totalAmount float64) (entity.ApproverRole, bool) {
	switch {
	case role == entity.RoleManager && totalAmount > r.ManagerApprovalLimit:
		return entity.RoleFinance, true
	case role == entity.RoleFinance && totalAmount > r.FinanceApprovalLimit:
		return entity.RoleAdmin, true
	}
	return "", false
}

// RequiredApprovers lists the roles that must sign off a report of totalAmount
func (r Rules) RequiredApprovers(totalAmount float64) []entity.ApproverRole {
	approvers := []entity.ApproverRole{}
	if totalAmount > r.ManagerThreshold {
		approvers = append(approvers, entity.RoleManager)
	}
	if totalAmount > r.ManagerApprovalLimit {
		approvers = append(approvers, entity.RoleFinance)
	}
	if totalAmount > r.FinanceApprovalLimit {
		approvers = append(approvers, entity.RoleAdmin)
	}
	return approvers
}
