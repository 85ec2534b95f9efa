package feasibility

import (
	"strings"

	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/models"
)

type cityRates struct {
	state                                  string
	rent, wage                             string
	milk, steel, fabric, electricity, fuel string
}

// cityFallbacks are last known figures for the major metros, used when the
// provider cannot answer.
var cityFallbacks = map[string]cityRates{
	"mumbai":    {"Maharashtra", "150.00", "25000.00", "60.00", "50.00", "200.00", "8.50", "105.00"},
	"delhi":     {"Delhi", "120.00", "22000.00", "55.00", "48.00", "180.00", "7.50", "103.00"},
	"bangalore": {"Karnataka", "100.00", "20000.00", "50.00", "45.00", "170.00", "6.50", "100.00"},
	"chennai":   {"Tamil Nadu", "90.00", "18000.00", "48.00", "47.00", "160.00", "6.00", "98.00"},
	"pune":      {"Maharashtra", "80.00", "19000.00", "52.00", "49.00", "175.00", "7.00", "102.00"},
}

// FallbackLocationData returns the city's fallback figures when known and
// DefaultLocationData otherwise.
func FallbackLocationData(city string) *models.LocationData {
	rates, ok := cityFallbacks[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return DefaultLocationData(city)
	}
	return &models.LocationData{
		City:        city,
		State:       rates.state,
		RentPerSqFt: decimal.RequireFromString(rates.rent),
		AverageWage: decimal.RequireFromString(rates.wage),
		CommodityPrices: models.CommodityPrices{
			Milk:        decimal.RequireFromString(rates.milk),
			Steel:       decimal.RequireFromString(rates.steel),
			Fabric:      decimal.RequireFromString(rates.fabric),
			Electricity: decimal.RequireFromString(rates.electricity),
			Fuel:        decimal.RequireFromString(rates.fuel),
		},
		Source: models.LocationSourceFallback,
	}
}
