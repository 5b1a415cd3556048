package port

import (
	"context"
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

// PaymentRequest describes a reimbursement to disburse
type PaymentRequest struct {
	ReportID    string
	Amount      float64
	Currency    string
	Method      string
	Beneficiary entity.Beneficiary
}

// PaymentReceipt is what the gateway returns for an accepted payment
type PaymentReceipt struct {
	TransactionID string
	ProcessedAt   time.Time
}

// PaymentGateway disburses approved reimbursements
type PaymentGateway interface {
	Pay(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)
}
