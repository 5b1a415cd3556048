package entity

// Expense categories accepted on ExpenseItem.Category
const (
	CategoryTravel               = "travel"
	CategoryMeals                = "meals"
	CategoryOfficeSupplies       = "office_supplies"
	CategorySoftware             = "software"
	CategoryTraining             = "training"
	CategoryMarketing            = "marketing"
	CategoryEquipment            = "equipment"
	CategoryProfessionalServices = "professional_services"
	CategoryUtilities            = "utilities"
	CategoryOther                = "other"
)

// Categories lists every expense category in declaration order
var Categories = []string{
	CategoryTravel,
	CategoryMeals,
	CategoryOfficeSupplies,
	CategorySoftware,
	CategoryTraining,
	CategoryMarketing,
	CategoryEquipment,
	CategoryProfessionalServices,
	CategoryUtilities,
	CategoryOther,
}

// DefaultCurrency is applied to expense items submitted without a currency
const DefaultCurrency = "USD"

// ApproverRole identifies who acted on a report
type ApproverRole string

const (
	RoleManager ApproverRole = "manager"
	RoleFinance ApproverRole = "finance"
	RoleAdmin   ApproverRole = "admin"
)

var roleRank = map[ApproverRole]int{
	RoleManager: 1,
	RoleFinance: 2,
	RoleAdmin:   3,
}

// IsValid returns true for manager, finance and admin
func (r ApproverRole) IsValid() bool {
	return roleRank[r] > 0
}

// AtLeast reports whether r carries at least the authority of other
func (r ApproverRole) AtLeast(other ApproverRole) bool {
	return r.IsValid() && roleRank[r] >= roleRank[other]
}

// ApprovalAction is the decision an approver takes
type ApprovalAction string

const (
	ActionApprove     ApprovalAction = "approve"
	ActionReject      ApprovalAction = "reject"
	ActionRequestInfo ApprovalAction = "request_info"
)

// IsValid returns true for approve, reject and request_info
func (a ApprovalAction) IsValid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionRequestInfo:
		return true
	}
	return false
}

// Policy violation types
const (
	ViolationExceedsLimit     = "exceeds_limit"
	ViolationMissingReceipt   = "missing_receipt"
	ViolationInvalidCategory  = "invalid_category"
	ViolationDuplicateExpense = "duplicate_expense"
	ViolationOutdatedExpense  = "outdated_expense"
	ViolationInvalidMerchant  = "invalid_merchant"
	ViolationPolicyBreach     = "policy_breach"
)

// Policy violation severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ReportStatus is the employee-facing status carried on ExpenseReport.
// It is always derived from the workflow status.
type ReportStatus string

const (
	ReportStatusDraft                  ReportStatus = "draft"
	ReportStatusSubmitted              ReportStatus = "submitted"
	ReportStatusPendingManagerApproval ReportStatus = "pending_manager_approval"
	ReportStatusPendingFinanceApproval ReportStatus = "pending_finance_approval"
	ReportStatusPendingAdminApproval   ReportStatus = "pending_admin_approval"
	ReportStatusApproved               ReportStatus = "approved"
	ReportStatusRejected               ReportStatus = "rejected"
	ReportStatusPaid                   ReportStatus = "paid"
	ReportStatusRequiresAdditionalInfo ReportStatus = "requires_additional_info"
)

// DefaultPaymentMethod is used when a payment request names no method
const DefaultPaymentMethod = "direct_deposit"
