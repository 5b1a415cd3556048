package policy

import (
	"fmt"
	"math"
	"strconv"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

// ValidationResult is the outcome of checking a report against policy
type ValidationResult struct {
	Passed                  bool                     `json:"passed"`
	Violations              []entity.PolicyViolation `json:"violations"`
	AutoApprovable          bool                     `json:"autoApprovable"`
	RequiredApprovers       []entity.ApproverRole    `json:"requiredApprovers"`
	EstimatedProcessingTime string                   `json:"estimatedProcessingTime"`
	ValidationScore         int                      `json:"validationScore"`
}

// Validator evaluates expense reports against Rules
type Validator struct {
	rules Rules
}

// NewValidator creates a validator for the given rules
func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate checks every item and then the report total. It has no side effects.
func (v *Validator) Validate(report *entity.ExpenseReport) ValidationResult {
	violations := []entity.PolicyViolation{}
	autoApprovable := true

	for _, item := range report.Expenses {
		if item.Amount > v.rules.ItemLimit {
			violations = append(violations, entity.PolicyViolation{
				Type:            entity.ViolationExceedsLimit,
				Severity:        entity.SeverityMedium,
				Description:     fmt.Sprintf("Expense of $%s exceeds single item limit of $%s", formatAmount(item.Amount), formatAmount(v.rules.ItemLimit)),
				SuggestedAction: "Require manager approval",
			})
			autoApprovable = false
		}

		if limit, ok := v.rules.CategoryLimits[item.Category]; ok && item.Amount > limit {
			violations = append(violations, entity.PolicyViolation{
				Type:            entity.ViolationExceedsLimit,
				Severity:        entity.SeverityMedium,
				Description:     fmt.Sprintf("Expense of $%s exceeds the %s category limit of $%s", formatAmount(item.Amount), item.Category, formatAmount(limit)),
				SuggestedAction: "Provide justification for the category overage",
			})
			autoApprovable = false
		}

		if item.Amount > v.rules.ReceiptThreshold && !item.HasReceipt() {
			violations = append(violations, entity.PolicyViolation{
				Type:            entity.ViolationMissingReceipt,
				Severity:        entity.SeverityHigh,
				Description:     fmt.Sprintf("Receipt required for expense of $%s", formatAmount(item.Amount)),
				SuggestedAction: "Request receipt upload",
			})
			autoApprovable = false
		}
	}

	required := v.rules.RequiredApprovers(report.TotalAmount)
	if report.TotalAmount > v.rules.ManagerThreshold {
		autoApprovable = false
	}

	return ValidationResult{
		Passed:                  len(violations) == 0,
		Violations:              violations,
		AutoApprovable:          autoApprovable,
		RequiredApprovers:       required,
		EstimatedProcessingTime: EstimatedProcessingTime(len(violations)),
		ValidationScore:         ValidationScore(len(violations)),
	}
}

// EstimatedProcessingTime is ceil(1 + 0.5 per violation) hours
func EstimatedProcessingTime(violationCount int) string {
	hours := int(math.Ceil(1 + 0.5*float64(violationCount)))
	return fmt.Sprintf("%d hours", hours)
}

// ValidationScore starts at 100 and loses 20 per violation, floored at 0
func ValidationScore(violationCount int) int {
	score := 100 - 20*violationCount
	if score < 0 {
		return 0
	}
	return score
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
