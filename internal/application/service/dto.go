package service

import (
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/policy"
)

// ExpenseItemInput is one submitted expense line
type ExpenseItemInput struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,uuid"`
	Category    string  `json:"category" validate:"required,oneof=travel meals office_supplies software training marketing equipment professional_services utilities other"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0,lte=1000000000"`
	Currency    string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Merchant    string  `json:"merchant" validate:"required"`
	ReceiptURL  string  `json:"receiptUrl,omitempty" validate:"omitempty,url"`
	Notes       string  `json:"notes,omitempty"`
}

// EmployeeInfoInput identifies the submitting employee
type EmployeeInfoInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	ManagerID  string `json:"managerId,omitempty"`
	CostCenter string `json:"costCenter,omitempty"`
}

// SubmitExpenseRequest is an expense report draft. TotalAmount is optional;
// when present it must equal the sum of the item amounts.
type SubmitExpenseRequest struct {
	Title           string             `json:"title" validate:"required"`
	EmployeeID      string             `json:"employeeId" validate:"required,uuid"`
	EmployeeInfo    EmployeeInfoInput  `json:"employeeInfo"`
	Expenses        []ExpenseItemInput `json:"expenses" validate:"min=1,dive"`
	TotalAmount     *float64           `json:"totalAmount,omitempty" validate:"omitempty,gt=0,lte=1000000000000"`
	BusinessPurpose string             `json:"businessPurpose" validate:"required"`
}

// ApprovalRequest is an approver's decision on a report
type ApprovalRequest struct {
	ApproverRole string `json:"approverRole" validate:"required,oneof=manager finance admin"`
	ApproverID   string `json:"approverId" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=approve reject request_info"`
	Comments     string `json:"comments,omitempty"`
}

// PayRequest selects how an approved report is disbursed
type PayRequest struct {
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// ListFilter narrows a report listing. Empty fields match everything.
type ListFilter struct {
	Status     string
	EmployeeID string
}

// SubmitResult acknowledges a new report
type SubmitResult struct {
	ReportID   string   `json:"reportId"`
	WorkflowID string   `json:"workflowId"`
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	NextSteps  []string `json:"nextSteps"`
}

// ValidationOutcome is the policy check result for a stored report
type ValidationOutcome struct {
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
	policy.ValidationResult
	Timestamp time.Time `json:"timestamp"`
}

// ApprovalOutcome is the routed decision for one approver action
type ApprovalOutcome struct {
	ReportID     string              `json:"reportId"`
	ApproverRole entity.ApproverRole `json:"approverRole"`
	ApproverID   string              `json:"approverId"`
	Status       string              `json:"status"`
	policy.Decision
}

// PaymentOutcome is the settlement record returned to the caller
type PaymentOutcome struct {
	ReportID             string             `json:"reportId"`
	Processed            bool               `json:"processed"`
	PaymentMethod        string             `json:"paymentMethod"`
	TransactionID        string             `json:"transactionId"`
	PaymentAmount        float64            `json:"paymentAmount"`
	Currency             string             `json:"currency"`
	EstimatedPaymentDate string             `json:"estimatedPaymentDate"`
	ActualPaymentDate    string             `json:"actualPaymentDate"`
	PaymentStatus        string             `json:"paymentStatus"`
	Beneficiary          entity.Beneficiary `json:"beneficiary"`
	Timestamp            time.Time          `json:"timestamp"`
}

// Progress flags the milestones a report has reached
type Progress struct {
	Submitted        bool `json:"submitted"`
	PolicyChecked    bool `json:"policyChecked"`
	ManagerApproved  bool `json:"managerApproved"`
	FinanceApproved  bool `json:"financeApproved"`
	AdminApproved    bool `json:"adminApproved"`
	PaymentProcessed bool `json:"paymentProcessed"`
}

// StatusView is the full point-lookup projection of a workflow
type StatusView struct {
	ReportID         string                   `json:"reportId"`
	WorkflowID       string                   `json:"workflowId"`
	Status           string                   `json:"status"`
	Progress         Progress                 `json:"progress"`
	ExpenseReport    entity.ExpenseReport     `json:"expenseReport"`
	PolicyViolations []entity.PolicyViolation `json:"policyViolations"`
	PaymentDetails   *entity.PaymentDetails   `json:"paymentDetails"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// ReportSummary is one row of a report listing
type ReportSummary struct {
	ReportID       string    `json:"reportId"`
	WorkflowID     string    `json:"workflowId"`
	Title          string    `json:"title"`
	EmployeeName   string    `json:"employeeName"`
	Department     string    `json:"department"`
	TotalAmount    float64   `json:"totalAmount"`
	Status         string    `json:"status"`
	SubmissionDate time.Time `json:"submissionDate"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListResult is a filtered report listing
type ListResult struct {
	Reports []ReportSummary `json:"reports"`
	Total   int             `json:"total"`
}
