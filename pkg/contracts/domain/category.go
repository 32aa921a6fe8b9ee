package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the professional classification of a billed service.
// The set is fixed: tariff codes that match none of the business rules
// fall into CategoryOther.
type Category int

const (
	// CategoryOther collects remuneration lines and unclassified codes
	CategoryOther Category = iota
	// CategoryPhysiotherapy covers physiotherapy tariff positions
	CategoryPhysiotherapy
	// CategoryOccupationalTherapy covers occupational therapy (ergothérapie)
	CategoryOccupationalTherapy
	// CategoryMassage covers medical massage positions
	CategoryMassage
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPhysiotherapy,
	CategoryOccupationalTherapy,
	CategoryMassage,
	CategoryOther,
}

// CategoryColors maps each category to its fixed chart color.
// The UI relies on these staying stable across uploads.
var CategoryColors = map[Category]string{
	CategoryPhysiotherapy:       "#00CCFF",
	CategoryOccupationalTherapy: "#FF9900",
	CategoryMassage:             "#00CC96",
	CategoryOther:               "#AB63FA",
}

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case CategoryPhysiotherapy:
		return "Physiothérapie"
	case CategoryOccupationalTherapy:
		return "Ergothérapie"
	case CategoryMassage:
		return "Massage"
	case CategoryOther:
		return "Autre"
	default:
		return "Autre"
	}
}

// ParseCategory converts a display name back into a Category.
// Unknown names are rejected so user overrides cannot invent categories.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Physiothérapie":
		return CategoryPhysiotherapy, nil
	case "Ergothérapie":
		return CategoryOccupationalTherapy, nil
	case "Massage":
		return CategoryMassage, nil
	case "Autre":
		return CategoryOther, nil
	default:
		return CategoryOther, fmt.Errorf("unknown category %q", s)
	}
}

// MarshalJSON encodes the category as its display name
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from its display name
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
