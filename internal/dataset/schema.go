package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema names the columns the dashboard binds to. The measure column is
// the only required one; every other binding degrades per chart when the
// column is absent from the loaded file.
type Schema struct {
	Measure    string   `yaml:"measure" json:"measure"`
	ItemType   string   `yaml:"item_type" json:"item_type"`
	OutletID   string   `yaml:"outlet_id" json:"outlet_id"`
	OutletType string   `yaml:"outlet_type" json:"outlet_type"`
	OutletSize string   `yaml:"outlet_size" json:"outlet_size"`
	Location   string   `yaml:"location" json:"location"`
	Price      string   `yaml:"price" json:"price"`
	Visibility string   `yaml:"visibility" json:"visibility"`
	Weight     string   `yaml:"weight" json:"weight"`
	Year       string   `yaml:"year" json:"year"`
	Date       string   `yaml:"date" json:"date,omitempty"`
	Correlates []string `yaml:"correlates" json:"correlates"`
}

// DefaultSchema matches the cleaned BigMart-style sales export the
// dashboard ships against.
func DefaultSchema() Schema {
	return Schema{
		Measure:    "Item_Outlet_Sales",
		ItemType:   "Item_Type",
		OutletID:   "Outlet_Identifier",
		OutletType: "Outlet_Type",
		OutletSize: "Outlet_Size",
		Location:   "Outlet_Location_Type",
		Price:      "Item_MRP",
		Visibility: "Item_Visibility",
		Weight:     "Item_Weight",
		Year:       "Outlet_Establishment_Year",
		Correlates: []string{"Item_Weight", "Item_MRP", "Item_Visibility", "Item_Outlet_Sales"},
	}
}

// LoadSchema reads a YAML schema file. Fields left empty in the file keep
// their default binding so an override file only needs the names that
// differ.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read schema file: %w", err)
	}
	var override Schema
	if err := yaml.Unmarshal(data, &override); err != nil {
		return s, fmt.Errorf("parse schema file: %w", err)
	}
	merge(&s.Measure, override.Measure)
	merge(&s.ItemType, override.ItemType)
	merge(&s.OutletID, override.OutletID)
	merge(&s.OutletType, override.OutletType)
	merge(&s.OutletSize, override.OutletSize)
	merge(&s.Location, override.Location)
	merge(&s.Price, override.Price)
	merge(&s.Visibility, override.Visibility)
	merge(&s.Weight, override.Weight)
	merge(&s.Year, override.Year)
	merge(&s.Date, override.Date)
	if len(override.Correlates) > 0 {
		s.Correlates = override.Correlates
	}
	return s, nil
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Required returns the columns the service cannot start without.
func (s Schema) Required() []string { return []string{s.Measure} }

// Optional returns the non-empty bindings beyond the required set.
func (s Schema) Optional() []string {
	candidates := []string{
		s.ItemType, s.OutletID, s.OutletType, s.OutletSize,
		s.Location, s.Price, s.Visibility, s.Weight, s.Year, s.Date,
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Validation is the typed outcome of checking a schema against a loaded
// table. A missing required column blocks startup; missing optional
// columns degrade the charts that need them.
type Validation struct {
	MissingRequired []string `json:"missing_required"`
	MissingOptional []string `json:"missing_optional"`
}

// OK reports whether every required column is present.
func (v Validation) OK() bool { return len(v.MissingRequired) == 0 }

// Validate checks every schema binding against the table's header.
func (s Schema) Validate(t *Table) Validation {
	var v Validation
	for _, name := range s.Required() {
		if !t.HasColumn(name) {
			v.MissingRequired = append(v.MissingRequired, name)
		}
	}
	for _, name := range s.Optional() {
		if !t.HasColumn(name) {
			v.MissingOptional = append(v.MissingOptional, name)
		}
	}
	return v
}
