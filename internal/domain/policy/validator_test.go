package policy

import (
	"reflect"
	"testing"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

func reportWith(items ...entity.ExpenseItem) *entity.ExpenseReport {
	report := &entity.ExpenseReport{Expenses: items}
	report.TotalAmount = report.ItemsTotal()
	return report
}

func item(amount float64, receipt bool) entity.ExpenseItem {
	it := entity.ExpenseItem{
		Category:    entity.CategoryTravel,
		Description: "Flight",
		Amount:      amount,
		Currency:    "USD",
		Date:        "2026-10-01",
		Merchant:    "Airline",
	}
	if receipt {
		it.ReceiptURL = "https://receipts.example.com/1"
	}
	return it
}

func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name           string
		report         *entity.ExpenseReport
		wantTypes      []string
		wantAuto       bool
		wantApprovers  []entity.ApproverRole
		wantScore      int
		wantProcessing string
	}{
		{
			name:           "small report with receipt passes",
			report:         reportWith(item(30, true)),
			wantTypes:      nil,
			wantAuto:       true,
			wantApprovers:  []entity.ApproverRole{},
			wantScore:      100,
			wantProcessing: "1 hours",
		},
		{
			name:           "small item below receipt threshold needs no receipt",
			report:         reportWith(item(20, false)),
			wantTypes:      nil,
			wantAuto:       true,
			wantApprovers:  []entity.ApproverRole{},
			wantScore:      100,
			wantProcessing: "1 hours",
		},
		{
			name:           "missing receipt above threshold",
			report:         reportWith(item(30, false)),
			wantTypes:      []string{entity.ViolationMissingReceipt},
			wantAuto:       false,
			wantApprovers:  []entity.ApproverRole{},
			wantScore:      80,
			wantProcessing: "2 hours",
		},
		{
			name:           "item over limit with receipt",
			report:         reportWith(item(1800, true)),
			wantTypes:      []string{entity.ViolationExceedsLimit},
			wantAuto:       false,
			wantApprovers:  []entity.ApproverRole{entity.RoleManager, entity.RoleFinance},
			wantScore:      80,
			wantProcessing: "2 hours",
		},
		{
			name:           "item over limit without receipt",
			report:         reportWith(item(1200, false)),
			wantTypes:      []string{entity.ViolationExceedsLimit, entity.ViolationMissingReceipt},
			wantAuto:       false,
			wantApprovers:  []entity.ApproverRole{entity.RoleManager, entity.RoleFinance},
			wantScore:      60,
			wantProcessing: "2 hours",
		},
		{
			name:           "manager threshold alone disables auto approval",
			report:         reportWith(item(40, true), item(40, true)),
			wantTypes:      nil,
			wantAuto:       false,
			wantApprovers:  []entity.ApproverRole{entity.RoleManager},
			wantScore:      100,
			wantProcessing: "1 hours",
		},
		{
			name:           "large report needs every approver",
			report:         reportWith(item(900, true), item(900, true), item(900, true), item(900, true), item(900, true), item(900, true)),
			wantTypes:      nil,
			wantAuto:       false,
			wantApprovers:  []entity.ApproverRole{entity.RoleManager, entity.RoleFinance, entity.RoleAdmin},
			wantScore:      100,
			wantProcessing: "1 hours",
		},
	}

	v := NewValidator(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.report)

			var types []string
			for _, violation := range got.Violations {
				types = append(types, violation.Type)
			}
			if !reflect.DeepEqual(types, tt.wantTypes) {
				t.Errorf("violation types = %v, want %v", types, tt.wantTypes)
			}
			if got.Passed != (len(tt.wantTypes) == 0) {
				t.Errorf("Passed = %v, want %v", got.Passed, len(tt.wantTypes) == 0)
			}
			if got.AutoApprovable != tt.wantAuto {
				t.Errorf("AutoApprovable = %v, want %v", got.AutoApprovable, tt.wantAuto)
			}
			if !reflect.DeepEqual(got.RequiredApprovers, tt.wantApprovers) {
				t.Errorf("RequiredApprovers = %v, want %v", got.RequiredApprovers, tt.wantApprovers)
			}
			if got.ValidationScore != tt.wantScore {
				t.Errorf("ValidationScore = %d, want %d", got.ValidationScore, tt.wantScore)
			}
			if got.EstimatedProcessingTime != tt.wantProcessing {
				t.Errorf("EstimatedProcessingTime = %q, want %q", got.EstimatedProcessingTime, tt.wantProcessing)
			}
		})
	}
}

func TestValidator_Deterministic(t *testing.T) {
	v := NewValidator(DefaultRules())
	report := reportWith(item(1500, false), item(10, false))

	first := v.Validate(report)
	second := v.Validate(report)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate() not deterministic: %+v vs %+v", first, second)
	}
}

func TestValidator_ExceedsLimitDescription(t *testing.T) {
	got := NewValidator(DefaultRules()).Validate(reportWith(item(1800, true)))
	if len(got.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(got.Violations))
	}
	want := "Expense of $1800 exceeds single item limit of $1000"
	if got.Violations[0].Description != want {
		t.Errorf("Description = %q, want %q", got.Violations[0].Description, want)
	}
	if got.Violations[0].Severity != entity.SeverityMedium {
		t.Errorf("Severity = %q, want %q", got.Violations[0].Severity, entity.SeverityMedium)
	}
}

func TestValidator_CategoryLimits(t *testing.T) {
	rules := DefaultRules()
	rules.CategoryLimits = map[string]float64{entity.CategoryMeals: 75}

	meal := item(90, true)
	meal.Category = entity.CategoryMeals

	got := NewValidator(rules).Validate(reportWith(meal))
	if len(got.Violations) != 1 || got.Violations[0].Type != entity.ViolationExceedsLimit {
		t.Fatalf("expected one exceeds_limit violation, got %+v", got.Violations)
	}
	if got.AutoApprovable {
		t.Error("category overage should disable auto approval")
	}
}

func TestValidationScore(t *testing.T) {
	tests := []struct {
		violations int
		want       int
	}{
		{0, 100},
		{1, 80},
		{5, 0},
		{6, 0},
		{10, 0},
	}

	for _, tt := range tests {
		if got := ValidationScore(tt.violations); got != tt.want {
			t.Errorf("ValidationScore(%d) = %d, want %d", tt.violations, got, tt.want)
		}
	}
}

func TestEstimatedProcessingTime(t *testing.T) {
	tests := []struct {
		violations int
		want       string
	}{
		{0, "1 hours"},
		{1, "2 hours"},
		{2, "2 hours"},
		{3, "3 hours"},
	}

	for _, tt := range tests {
		if got := EstimatedProcessingTime(tt.violations); got != tt.want {
			t.Errorf("EstimatedProcessingTime(%d) = %q, want %q", tt.violations, got, tt.want)
		}
	}
}
