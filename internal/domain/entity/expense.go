package entity

import "time"

// ExpenseItem is a single line on an expense report
type ExpenseItem struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Merchant    string  `json:"merchant"`
	ReceiptURL  string  `json:"receiptUrl,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// HasReceipt reports whether a receipt was attached to the item
func (i ExpenseItem) HasReceipt() bool {
	return i.ReceiptURL != ""
}

// EmployeeInfo describes the employee who submitted a report
type EmployeeInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	ManagerID  string `json:"managerId,omitempty"`
	CostCenter string `json:"costCenter,omitempty"`
}

// ApprovalRecord is one entry of a report's approval trail
type ApprovalRecord struct {
	ApprovedBy   string         `json:"approvedBy"`
	ApproverRole ApproverRole   `json:"approverRole"`
	Action       ApprovalAction `json:"action"`
	Timestamp    time.Time      `json:"timestamp"`
	Comments     string         `json:"comments,omitempty"`
}

// ExpenseReport is the content an employee submits for reimbursement
type ExpenseReport struct {
	ID                      string           `json:"id"`
	Title                   string           `json:"title"`
	EmployeeID              string           `json:"employeeId"`
	EmployeeInfo            EmployeeInfo     `json:"employeeInfo"`
	Expenses                []ExpenseItem    `json:"expenses"`
	TotalAmount             float64          `json:"totalAmount"`
	SubmissionDate          time.Time        `json:"submissionDate"`
	BusinessPurpose         string           `json:"businessPurpose"`
	Status                  ReportStatus     `json:"status"`
	ApprovalHistory         []ApprovalRecord `json:"approvalHistory"`
	RejectionReason         string           `json:"rejectionReason,omitempty"`
	AdditionalInfoRequested string           `json:"additionalInfoRequested,omitempty"`
}

// ItemsTotal sums the amounts of every expense item
func (r *ExpenseReport) ItemsTotal() float64 {
	var total float64
	for _, item := range r.Expenses {
		total += item.Amount
	}
	return total
}

// HasApproval reports whether role has approved the report at least once
func (r *ExpenseReport) HasApproval(role ApproverRole) bool {
	for _, record := range r.ApprovalHistory {
		if record.ApproverRole == role && record.Action == ActionApprove {
			return true
		}
	}
	return false
}

// PolicyViolation is a breached spending rule found during validation
type PolicyViolation struct {
	Type            string `json:"type"`
	Severity        string `json:"severity"`
	Description     string `json:"description"`
	SuggestedAction string `json:"suggestedAction"`
}

// Beneficiary is the payee of a settled report
type Beneficiary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaymentDetails is the settlement record attached to a paid workflow
type PaymentDetails struct {
	TransactionID        string      `json:"transactionId"`
	PaymentMethod        string      `json:"paymentMethod"`
	PaymentDate          string      `json:"paymentDate"`
	EstimatedPaymentDate string      `json:"estimatedPaymentDate"`
	Amount               float64     `json:"amount"`
	Currency             string      `json:"currency"`
	Beneficiary          Beneficiary `json:"beneficiary"`
}

// ExpenseWorkflow tracks the processing state of one expense report.
// Status is authoritative; ExpenseReport.Status mirrors it.
type ExpenseWorkflow struct {
	ID               string            `json:"id"`
	ReportID         string            `json:"reportId"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	ExpenseReport    ExpenseReport     `json:"expenseReport"`
	PolicyViolations []PolicyViolation `json:"policyViolations,omitempty"`
	PolicyCheckedAt  *time.Time        `json:"policyCheckedAt,omitempty"`
	PaymentDetails   *PaymentDetails   `json:"paymentDetails,omitempty"`
}

// Clone returns a deep copy so callers can mutate without touching stored state
func (w *ExpenseWorkflow) Clone() *ExpenseWorkflow {
	if w == nil {
		return nil
	}
	c := *w
	c.ExpenseReport.Expenses = append(make([]ExpenseItem, 0, len(w.ExpenseReport.Expenses)), w.ExpenseReport.Expenses...)
	c.ExpenseReport.ApprovalHistory = append(make([]ApprovalRecord, 0, len(w.ExpenseReport.ApprovalHistory)), w.ExpenseReport.ApprovalHistory...)
	if w.PolicyViolations != nil {
		c.PolicyViolations = append([]PolicyViolation{}, w.PolicyViolations...)
	}
	if w.PolicyCheckedAt != nil {
		t := *w.PolicyCheckedAt
		c.PolicyCheckedAt = &t
	}
	if w.PaymentDetails != nil {
		p := *w.PaymentDetails
		c.PaymentDetails = &p
	}
	return &c
}
