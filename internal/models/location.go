// internal/models/location.go
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Location data sources.
const (
	LocationSourceAPI      = "api"
	LocationSourceCache    = "cache"
	LocationSourceFallback = "city-fallback"
	LocationSourceDefault  = "default"
)

type CommodityPrices struct {
	Milk        decimal.Decimal `json:"milk"`
	Steel       decimal.Decimal `json:"steel"`
	Fabric      decimal.Decimal `json:"fabric"`
	Electricity decimal.Decimal `json:"electricity"`
	Fuel        decimal.Decimal `json:"fuel"`
}

// LocationData holds regional cost inputs for one city.
type LocationData struct {
	City            string          `json:"city"`
	State           string          `json:"state"`
	RentPerSqFt     decimal.Decimal `json:"rentPerSqFt"`
	AverageWage     decimal.Decimal `json:"averageWage"`
	CommodityPrices CommodityPrices `json:"commodityPrices"`
	Source          string          `json:"source,omitempty"`
}

// Validate checks that every monetary field is non-negative.
func (l *LocationData) Validate() error {
	fields := map[string]decimal.Decimal{
		"rentPerSqFt": l.RentPerSqFt,
		"averageWage": l.AverageWage,
		"milk":        l.CommodityPrices.Milk,
		"steel":       l.CommodityPrices.Steel,
		"fabric":      l.CommodityPrices.Fabric,
		"electricity": l.CommodityPrices.Electricity,
		"fuel":        l.CommodityPrices.Fuel,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return fmt.Errorf("location data for %s: %s is negative (%s)", l.City, name, v.String())
		}
	}
	return nil
}
