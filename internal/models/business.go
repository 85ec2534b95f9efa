// internal/models/business.go
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	apperrors "bizhealth-workers/internal/common/errors"
)

// BusinessType is the closed set of supported business variants. The empty
// value means the owner has not chosen one yet.
type BusinessType string

const (
	BusinessTypeCafe          BusinessType = "CAFE"
	BusinessTypeCloudKitchen  BusinessType = "CLOUD_KITCHEN"
	BusinessTypeManufacturing BusinessType = "MANUFACTURING"
	BusinessTypeRetail        BusinessType = "RETAIL"
	BusinessTypeService       BusinessType = "SERVICE"
)

// BusinessTypes lists every variant in declaration order.
var BusinessTypes = []BusinessType{
	BusinessTypeCafe,
	BusinessTypeCloudKitchen,
	BusinessTypeManufacturing,
	BusinessTypeRetail,
	BusinessTypeService,
}

type businessTypeInfo struct {
	displayName           string
	requiresSeating       bool
	requiresPackaging     bool
	requiresPowerSourcing bool
}

var businessTypeInfos = map[BusinessType]businessTypeInfo{
	BusinessTypeCafe:          {displayName: "Cafe", requiresSeating: true},
	BusinessTypeCloudKitchen:  {displayName: "Cloud Kitchen", requiresPackaging: true},
	BusinessTypeManufacturing: {displayName: "Manufacturing", requiresPowerSourcing: true},
	BusinessTypeRetail:        {displayName: "Retail"},
	BusinessTypeService:       {displayName: "Service"},
}

// ParseBusinessType matches s case-insensitively against the variant names.
// Surrounding whitespace is ignored and spaces or dashes count as underscores.
func ParseBusinessType(s string) (BusinessType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	bt := BusinessType(normalized)
	if _, ok := businessTypeInfos[bt]; !ok {
		return "", apperrors.NewInvalidBusinessTypeError(s)
	}
	return bt, nil
}

func (b BusinessType) String() string { return string(b) }

// IsValid reports whether b is one of the declared variants.
func (b BusinessType) IsValid() bool {
	_, ok := businessTypeInfos[b]
	return ok
}

// DisplayName returns the human readable name, or the raw value for unknown types.
func (b BusinessType) DisplayName() string {
	if info, ok := businessTypeInfos[b]; ok {
		return info.displayName
	}
	return string(b)
}

func (b BusinessType) RequiresSeatingCapacity() bool {
	return businessTypeInfos[b].requiresSeating
}

func (b BusinessType) RequiresPackagingCosts() bool {
	return businessTypeInfos[b].requiresPackaging
}

func (b BusinessType) RequiresPowerAndSourcing() bool {
	return businessTypeInfos[b].requiresPowerSourcing
}

// ResponseSet maps question ids to scalar answers.
type ResponseSet map[string]interface{}

// Has reports whether id has been answered with a non-nil value.
func (r ResponseSet) Has(id string) bool {
	v, ok := r[id]
	return ok && v != nil
}

// String returns the answer for id as trimmed text.
func (r ResponseSet) String(id string) (string, bool) {
	if !r.Has(id) {
		return "", false
	}
	s, err := cast.ToStringE(r[id])
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number returns the answer for id as a decimal. Numeric strings are accepted.
func (r ResponseSet) Number(id string) (decimal.Decimal, bool) {
	if !r.Has(id) {
		return decimal.Zero, false
	}
	if s, ok := r[id].(string); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		return d, err == nil
	}
	f, err := cast.ToFloat64E(r[id])
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// Clone returns a shallow copy so callers can extend it without touching the original.
func (r ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// BusinessProfile is the anchor for feasibility runs, created once onboarding completes.
type BusinessProfile struct {
	ID                  string           `json:"id"`
	OwnerID             string           `json:"ownerId"`
	BusinessType        BusinessType     `json:"businessType"`
	City                string           `json:"city"`
	SeatingCapacity     *int             `json:"seatingCapacity,omitempty"`
	PackagingCosts      *decimal.Decimal `json:"packagingCosts,omitempty"`
	PowerConsumption    *decimal.Decimal `json:"powerConsumption,omitempty"`
	RawMaterialSourcing *string          `json:"rawMaterialSourcing,omitempty"`
	Responses           ResponseSet      `json:"responses"`
	CreatedAt           time.Time        `json:"createdAt"`
}
