package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostCategory groups a crop's direct input costs.
type CostCategory string

const (
	CategorySeeds      CostCategory = "Seeds/Seedlings"
	CategoryFertilizer CostCategory = "Fertilizer"
	CategoryPesticides CostCategory = "Pesticides"
	CategoryLabor      CostCategory = "Labor"
	CategoryEquipment  CostCategory = "Equipment"
	CategoryWater      CostCategory = "Water"
	CategoryOther      CostCategory = "Other"
)

// CostCategories lists the categories offered by the cost calculator.
var CostCategories = []CostCategory{
	CategorySeeds,
	CategoryFertilizer,
	CategoryPesticides,
	CategoryLabor,
	CategoryEquipment,
	CategoryWater,
	CategoryOther,
}

// ParseCostCategory matches raw input against the known categories.
func ParseCostCategory(raw string) (CostCategory, error) {
	if raw == "" {
		return "", NewValidationError("category", "is required")
	}
	for _, c := range CostCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", NewValidationError("category", fmt.Sprintf("%q is not a known cost category", raw))
}

// CostItem is one direct-cost line item owned by a single crop.
type CostItem struct {
	ID          string          `json:"id"`
	CropID      string          `json:"crop_id"`
	Category    CostCategory    `json:"category"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    *Quantity       `json:"quantity,omitempty"`
}
