package feasibility

import (
	"strings"

	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/models"
)

// costInputs is everything a cost model may read.
type costInputs struct {
	profile     *models.BusinessProfile
	location    *models.LocationData
	space       decimal.Decimal
	monthlyRent decimal.Decimal
}

type lineItem struct {
	name   string
	amount func(in costInputs) decimal.Decimal
	// when is optional; the item is skipped when it returns false.
	when func(in costInputs) bool
}

// costModel is the per business type strategy.
type costModel struct {
	space          func(p *models.BusinessProfile) decimal.Decimal
	depositMonths  int64
	capex          []lineItem
	opex           []lineItem
	monthlyRevenue func(p *models.BusinessProfile) decimal.Decimal
}

const (
	defaultSeatingCapacity = 20
	sqFtPerSeat            = 15
	cafeTurnsPerDay        = 3
	cafeAverageTicket      = 200
	daysPerMonth           = 30
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func fixed(v int64) func(costInputs) decimal.Decimal {
	amount := d(v)
	return func(costInputs) decimal.Decimal { return amount }
}

func rent(in costInputs) decimal.Decimal { return in.monthlyRent }

func wageTimes(factor string) func(costInputs) decimal.Decimal {
	f := decimal.RequireFromString(factor)
	return func(in costInputs) decimal.Decimal { return in.location.AverageWage.Mul(f) }
}

// seatingCapacity defaults only an absent value; a stored capacity is used as is.
func seatingCapacity(p *models.BusinessProfile) int64 {
	if p.SeatingCapacity == nil {
		return defaultSeatingCapacity
	}
	return int64(*p.SeatingCapacity)
}

func fixedSpace(v int64) func(*models.BusinessProfile) decimal.Decimal {
	return func(*models.BusinessProfile) decimal.Decimal { return d(v) }
}

// fixedRevenue ignores the profile and location entirely.
// TODO: scale cloud kitchen and manufacturing revenue with delivery radius and
// production capacity the way the cafe model scales with seats.
func fixedRevenue(v int64) func(*models.BusinessProfile) decimal.Decimal {
	return func(*models.BusinessProfile) decimal.Decimal { return d(v) }
}

func sourcingMentions(p *models.BusinessProfile, material string) bool {
	return p.RawMaterialSourcing != nil && strings.Contains(strings.ToLower(*p.RawMaterialSourcing), material)
}

var cafeModel = costModel{
	space: func(p *models.BusinessProfile) decimal.Decimal {
		return d(seatingCapacity(p) * sqFtPerSeat)
	},
	depositMonths: 3,
	capex: []lineItem{
		{name: "Kitchen Equipment", amount: fixed(300000)},
		{name: "Furniture & Fixtures", amount: func(in costInputs) decimal.Decimal {
			return d(seatingCapacity(in.profile) * 5000)
		}},
		{name: "Interior Design", amount: func(in costInputs) decimal.Decimal { return in.space.Mul(d(500)) }},
		{name: "POS System", amount: fixed(50000)},
		{name: "Initial Inventory", amount: fixed(75000)},
		{name: "Licenses & Permits", amount: fixed(25000)},
	},
	opex: []lineItem{
		{name: "Rent", amount: rent},
		{name: "Staff Salaries", amount: wageTimes("2.5")},
		{name: "Raw Materials", amount: func(in costInputs) decimal.Decimal {
			return in.location.CommodityPrices.Milk.Mul(d(200)).Add(d(30000))
		}},
		{name: "Utilities", amount: func(in costInputs) decimal.Decimal {
			return in.location.CommodityPrices.Electricity.Mul(d(500)).Add(d(5000))
		}},
		{name: "Marketing", amount: fixed(10000)},
		{name: "Maintenance", amount: fixed(8000)},
		{name: "Insurance", amount: fixed(5000)},
	},
	monthlyRevenue: func(p *models.BusinessProfile) decimal.Decimal {
		return d(seatingCapacity(p) * cafeTurnsPerDay * cafeAverageTicket * daysPerMonth)
	},
}

var cloudKitchenModel = costModel{
	space:         fixedSpace(400),
	depositMonths: 3,
	capex: []lineItem{
		{name: "Kitchen Equipment", amount: fixed(250000)},
		{name: "Packaging Equipment", amount: fixed(50000)},
		{name: "Delivery Setup", amount: fixed(30000)},
		{name: "Initial Inventory", amount: fixed(40000)},
		{name: "Licenses & Permits", amount: fixed(20000)},
		{
			name:   "Initial Packaging Stock",
			amount: func(in costInputs) decimal.Decimal { return in.profile.PackagingCosts.Mul(d(3)) },
			when:   func(in costInputs) bool { return in.profile.PackagingCosts != nil },
		},
	},
	opex: []lineItem{
		{name: "Rent", amount: rent},
		{name: "Staff Salaries", amount: wageTimes("1.5")},
		{name: "Packaging", amount: func(in costInputs) decimal.Decimal {
			if in.profile.PackagingCosts != nil {
				return *in.profile.PackagingCosts
			}
			return d(15000)
		}},
		{name: "Raw Materials", amount: fixed(25000)},
		{name: "Delivery Charges", amount: fixed(12000)},
		{name: "Platform Commissions", amount: fixed(18000)},
		{name: "Utilities", amount: func(in costInputs) decimal.Decimal {
			return in.location.CommodityPrices.Electricity.Mul(d(300)).Add(d(3000))
		}},
		{name: "Marketing", amount: fixed(8000)},
		{name: "Maintenance", amount: fixed(5000)},
	},
	monthlyRevenue: fixedRevenue(450000),
}

var manufacturingModel = costModel{
	space:         fixedSpace(1500),
	depositMonths: 6,
	capex: []lineItem{
		{name: "Machinery & Equipment", amount: fixed(800000)},
		{name: "Raw Material Stock", amount: fixed(200000)},
		{name: "Factory Setup", amount: fixed(150000)},
		{name: "Licenses & Permits", amount: fixed(50000)},
		{name: "Safety Equipment", amount: fixed(75000)},
		{
			name:   "Power Connection",
			amount: func(in costInputs) decimal.Decimal { return in.profile.PowerConsumption.Mul(d(1000)) },
			when:   func(in costInputs) bool { return in.profile.PowerConsumption != nil },
		},
	},
	opex: []lineItem{
		{name: "Rent", amount: rent},
		{name: "Staff Salaries", amount: wageTimes("4")},
		{name: "Raw Materials", amount: func(in costInputs) decimal.Decimal {
			total := d(50000)
			if sourcingMentions(in.profile, "steel") {
				total = total.Add(in.location.CommodityPrices.Steel.Mul(d(100)))
			}
			if sourcingMentions(in.profile, "fabric") {
				total = total.Add(in.location.CommodityPrices.Fabric.Mul(d(50)))
			}
			return total
		}},
		{name: "Power", amount: func(in costInputs) decimal.Decimal {
			if in.profile.PowerConsumption != nil {
				return in.location.CommodityPrices.Electricity.Mul(*in.profile.PowerConsumption)
			}
			return d(25000)
		}},
		{name: "Maintenance", amount: fixed(15000)},
		{name: "Transportation", amount: fixed(10000)},
		{name: "Insurance", amount: fixed(8000)},
		{name: "Quality Control", amount: fixed(5000)},
	},
	monthlyRevenue: fixedRevenue(200000),
}

// genericModel serves RETAIL, SERVICE and any type without its own model.
var genericModel = costModel{
	space:         fixedSpace(500),
	depositMonths: 3,
	capex: []lineItem{
		{name: "Equipment", amount: fixed(200000)},
		{name: "Setup Costs", amount: fixed(100000)},
		{name: "Initial Inventory", amount: fixed(50000)},
		{name: "Licenses & Permits", amount: fixed(25000)},
	},
	opex: []lineItem{
		{name: "Rent", amount: rent},
		{name: "Staff Salaries", amount: wageTimes("2")},
		{name: "Operating Costs", amount: fixed(20000)},
		{name: "Utilities", amount: fixed(8000)},
		{name: "Maintenance", amount: fixed(5000)},
	},
	monthlyRevenue: fixedRevenue(100000),
}

var costModels = map[models.BusinessType]costModel{
	models.BusinessTypeCafe:          cafeModel,
	models.BusinessTypeCloudKitchen:  cloudKitchenModel,
	models.BusinessTypeManufacturing: manufacturingModel,
}

func modelFor(bt models.BusinessType) costModel {
	if m, ok := costModels[bt]; ok {
		return m
	}
	return genericModel
}
