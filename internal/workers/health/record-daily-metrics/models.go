package recorddailymetrics

import "github.com/shopspring/decimal"

type Input struct {
	OwnerID  string          `json:"ownerId" validate:"required"`
	Date     string          `json:"date" validate:"required"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Wastage  decimal.Decimal `json:"wastage"`
}

type Output struct {
	RecordID    string          `json:"recordId"`
	OwnerID     string          `json:"ownerId"`
	Date        string          `json:"date"`
	HealthScore int             `json:"healthScore"`
	Margin      decimal.Decimal `json:"margin"`
	Created     bool            `json:"created"`
}
