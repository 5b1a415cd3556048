package voucher

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// Sheet names and fixed cells of the voucher workbook
const (
	SheetVoucher   = "Voucher"
	SheetApprovals = "Approvals"

	itemsHeaderRow = 14
)

var headerCells = []struct {
	label string
	cell  string
}{
	{"Voucher No.", "B3"},
	{"Company", "B4"},
	{"Report ID", "B5"},
	{"Report Title", "B6"},
	{"Employee", "B7"},
	{"Department", "B8"},
	{"Business Purpose", "B9"},
	{"Transaction ID", "B10"},
	{"Payment Method", "B11"},
	{"Payment Date", "B12"},
}

var itemColumns = []string{"Date", "Category", "Account", "Merchant", "Description", "Amount", "Currency"}

var approvalColumns = []string{"Role", "Approver", "Action", "Timestamp", "Comments"}

// ExcelFiller renders a paid workflow as a payment voucher workbook
type ExcelFiller struct {
	companyName string
	logger      *zap.Logger
}

// NewExcelFiller creates a filler stamping vouchers with companyName
func NewExcelFiller(companyName string, logger *zap.Logger) *ExcelFiller {
	return &ExcelFiller{
		companyName: companyName,
		logger:      logger,
	}
}

// VoucherNumber derives the voucher number from the payment date and report ID
func VoucherNumber(wf *entity.ExpenseWorkflow) string {
	date := ""
	if wf.PaymentDetails != nil {
		date = strings.ReplaceAll(wf.PaymentDetails.PaymentDate, "-", "")
	}
	id := strings.ReplaceAll(wf.ReportID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("PV-%s-%s", date, strings.ToUpper(id))
}

// Fill builds the workbook for wf and returns it as xlsx bytes
func (ef *ExcelFiller) Fill(wf *entity.ExpenseWorkflow) ([]byte, error) {
	if wf.Status != domainwf.StatePaid.String() || wf.PaymentDetails == nil {
		return nil, ErrNotPaid
	}
	if len(wf.ExpenseReport.Expenses) == 0 {
		return nil, ErrNoItemsFound
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetVoucher); err != nil {
		return nil, fmt.Errorf("failed to name voucher sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetApprovals); err != nil {
		return nil, fmt.Errorf("failed to add approvals sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	ef.fillHeader(f, wf, bold)
	ef.fillItems(f, wf, bold)
	ef.fillApprovals(f, wf, bold)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	ef.logger.Info("Voucher workbook generated",
		zap.String("report_id", wf.ReportID),
		zap.String("voucher_number", VoucherNumber(wf)),
		zap.Int("items", len(wf.ExpenseReport.Expenses)))

	return buf.Bytes(), nil
}

func (ef *ExcelFiller) fillHeader(f *excelize.File, wf *entity.ExpenseWorkflow, bold int) {
	report := wf.ExpenseReport
	payment := wf.PaymentDetails

	ef.setCell(f, SheetVoucher, "A1", "Payment Voucher")
	ef.setStyle(f, SheetVoucher, "A1", "A1", bold)

	employee := report.EmployeeInfo.Name
	if report.EmployeeInfo.Email != "" {
		employee = fmt.Sprintf("%s <%s>", employee, report.EmployeeInfo.Email)
	}

	values := []string{
		VoucherNumber(wf),
		ef.companyName,
		wf.ReportID,
		report.Title,
		employee,
		report.EmployeeInfo.Department,
		report.BusinessPurpose,
		payment.TransactionID,
		payment.PaymentMethod,
		payment.PaymentDate,
	}
	for i, hc := range headerCells {
		labelCell := "A" + hc.cell[1:]
		ef.setCell(f, SheetVoucher, labelCell, hc.label)
		ef.setStyle(f, SheetVoucher, labelCell, labelCell, bold)
		ef.setCell(f, SheetVoucher, hc.cell, values[i])
	}
}

func (ef *ExcelFiller) fillItems(f *excelize.File, wf *entity.ExpenseWorkflow, bold int) {
	ef.setRow(f, SheetVoucher, itemsHeaderRow, toValues(itemColumns))
	ef.setStyle(f, SheetVoucher, "A14", "G14", bold)

	row := itemsHeaderRow + 1
	for _, item := range wf.ExpenseReport.Expenses {
		ef.setRow(f, SheetVoucher, row, []interface{}{
			item.Date,
			item.Category,
			AccountFor(item.Category),
			item.Merchant,
			item.Description,
			item.Amount,
			item.Currency,
		})
		row++
	}

	payment := wf.PaymentDetails
	ef.setCell(f, SheetVoucher, fmt.Sprintf("E%d", row), "Total")
	ef.setCell(f, SheetVoucher, fmt.Sprintf("F%d", row), payment.Amount)
	ef.setCell(f, SheetVoucher, fmt.Sprintf("G%d", row), payment.Currency)
	ef.setStyle(f, SheetVoucher, fmt.Sprintf("E%d", row), fmt.Sprintf("G%d", row), bold)

	ef.setCell(f, SheetVoucher, fmt.Sprintf("E%d", row+1), "Amount in words")
	ef.setCell(f, SheetVoucher, fmt.Sprintf("F%d", row+1), AmountInWords(payment.Amount))

	if err := f.SetColWidth(SheetVoucher, "A", "G", 20); err != nil {
		ef.logger.Warn("Failed to set column width", zap.Error(err))
	}
}

func (ef *ExcelFiller) fillApprovals(f *excelize.File, wf *entity.ExpenseWorkflow, bold int) {
	ef.setRow(f, SheetApprovals, 1, toValues(approvalColumns))
	ef.setStyle(f, SheetApprovals, "A1", "E1", bold)

	for i, record := range wf.ExpenseReport.ApprovalHistory {
		ef.setRow(f, SheetApprovals, i+2, []interface{}{
			string(record.ApproverRole),
			record.ApprovedBy,
			string(record.Action),
			record.Timestamp.UTC().Format(time.RFC3339),
			record.Comments,
		})
	}
}

func (ef *ExcelFiller) setRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		ef.logger.Warn("Invalid row", zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		ef.logger.Warn("Failed to set row values", zap.String("sheet", sheet), zap.Int("row", row), zap.Error(err))
	}
}

func (ef *ExcelFiller) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		ef.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func (ef *ExcelFiller) setStyle(f *excelize.File, sheet, from, to string, style int) {
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		ef.logger.Warn("Failed to set cell style", zap.String("sheet", sheet), zap.Error(err))
	}
}

func toValues(labels []string) []interface{} {
	out := make([]interface{}, len(labels))
	for i, l := range labels {
		out[i] = l
	}
	return out
}
