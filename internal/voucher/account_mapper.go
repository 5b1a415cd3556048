package voucher

import "github.com/garyjia/expense-approvals/internal/domain/entity"

// accountNames maps expense categories to ledger accounts
var accountNames = map[string]string{
	entity.CategoryTravel:               "6100 Travel Expense",
	entity.CategoryMeals:                "6110 Meals & Entertainment",
	entity.CategoryOfficeSupplies:       "6200 Office Supplies",
	entity.CategorySoftware:             "6210 Software Subscriptions",
	entity.CategoryTraining:             "6300 Training & Education",
	entity.CategoryMarketing:            "6400 Marketing",
	entity.CategoryEquipment:            "1500 Equipment",
	entity.CategoryProfessionalServices: "6500 Professional Fees",
	entity.CategoryUtilities:            "6600 Utilities",
	entity.CategoryOther:                "6900 Miscellaneous Expense",
}

// AccountFor returns the ledger account an expense category is booked against
func AccountFor(category string) string {
	if name, ok := accountNames[category]; ok {
		return name
	}
	return accountNames[entity.CategoryOther]
}
