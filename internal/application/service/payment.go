package service

import (
	"context"
	"fmt"

	"github.com/garyjia/expense-approvals/internal/application/port"
	appwf "github.com/garyjia/expense-approvals/internal/application/workflow"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/event"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// PaymentStatusProcessed is reported for every settled payment
const PaymentStatusProcessed = "processed"

const dateLayout = "2006-01-02"

// PaymentSettings controls how approved reports are settled
type PaymentSettings struct {
	DefaultMethod  string
	SettlementDays int
}

// PaymentService settles approved reports
type PaymentService interface {
	Pay(ctx context.Context, reportID string, req *PayRequest) (*PaymentOutcome, error)
}

type paymentServiceImpl struct {
	store    port.WorkflowStore
	engine   appwf.WorkflowEngine
	gateway  port.PaymentGateway
	settings PaymentSettings
	logger   Logger
	options
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	store port.WorkflowStore,
	engine appwf.WorkflowEngine,
	gateway port.PaymentGateway,
	settings PaymentSettings,
	logger Logger,
	opts ...Option,
) PaymentService {
	if settings.DefaultMethod == "" {
		settings.DefaultMethod = entity.DefaultPaymentMethod
	}
	if settings.SettlementDays <= 0 {
		settings.SettlementDays = 2
	}
	return &paymentServiceImpl{
		store:    store,
		engine:   engine,
		gateway:  gateway,
		settings: settings,
		logger:   logger,
		options:  newOptions(opts),
	}
}

// Pay disburses an approved report. The approved -> paid check and the write happen
// inside one store update, so concurrent payments for the same report cannot both succeed.
func (s *paymentServiceImpl) Pay(ctx context.Context, reportID string, req *PayRequest) (*PaymentOutcome, error) {
	method := s.settings.DefaultMethod
	if req != nil && req.PaymentMethod != "" {
		method = req.PaymentMethod
	}

	var (
		details *entity.PaymentDetails
		tr      appwf.Transition
		at      = s.now()
	)

	updated, err := s.store.Update(ctx, reportID, func(wf *entity.ExpenseWorkflow) error {
		if !s.engine.CanFire(wf, domainwf.TriggerPay) {
			return &PreconditionError{Message: MsgNotApproved, Err: domainwf.ErrInvalidTransition}
		}

		report := wf.ExpenseReport
		currency := entity.DefaultCurrency
		if len(report.Expenses) > 0 && report.Expenses[0].Currency != "" {
			currency = report.Expenses[0].Currency
		}
		beneficiary := entity.Beneficiary{Name: report.EmployeeInfo.Name, Email: report.EmployeeInfo.Email}

		receipt, err := s.gateway.Pay(ctx, port.PaymentRequest{
			ReportID:    wf.ReportID,
			Amount:      report.TotalAmount,
			Currency:    currency,
			Method:      method,
			Beneficiary: beneficiary,
		})
		if err != nil {
			return fmt.Errorf("payment gateway: %w", err)
		}

		tr, err = s.engine.Fire(ctx, wf, domainwf.TriggerPay)
		if err != nil {
			return transitionError(err, MsgNotApproved)
		}

		details = &entity.PaymentDetails{
			TransactionID:        receipt.TransactionID,
			PaymentMethod:        method,
			PaymentDate:          at.Format(dateLayout),
			EstimatedPaymentDate: at.AddDate(0, 0, s.settings.SettlementDays).Format(dateLayout),
			Amount:               report.TotalAmount,
			Currency:             currency,
			Beneficiary:          beneficiary,
		}
		wf.PaymentDetails = details
		return nil
	})
	if err != nil {
		return nil, mapStoreError(s.logger, "Payment failed", reportID, err)
	}

	paid := event.NewEvent(event.TypeReportPaid, updated.ReportID, updated.ID, map[string]interface{}{
		event.KeyAmount:        details.Amount,
		event.KeyPaymentMethod: details.PaymentMethod,
		event.KeyTransactionID: details.TransactionID,
	}, at)
	s.publish(ctx, s.logger, paid, statusChanged(paid, tr.From, tr.To, tr.Trigger))

	s.logger.Info("Expense report paid",
		"report_id", reportID,
		"transaction_id", details.TransactionID,
		"amount", details.Amount,
		"payment_method", details.PaymentMethod,
	)

	return &PaymentOutcome{
		ReportID:             reportID,
		Processed:            true,
		PaymentMethod:        details.PaymentMethod,
		TransactionID:        details.TransactionID,
		PaymentAmount:        details.Amount,
		Currency:             details.Currency,
		EstimatedPaymentDate: details.EstimatedPaymentDate,
		ActualPaymentDate:    details.PaymentDate,
		PaymentStatus:        PaymentStatusProcessed,
		Beneficiary:          details.Beneficiary,
		Timestamp:            at,
	}, nil
}
