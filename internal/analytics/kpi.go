package analytics

import (
	"math"

	"retail-dashboard/internal/dataset"
)

// KPIShare is a headline group (top category, best outlet) together with
// its share of the grand total in percent. The share is null when the
// grand total is zero.
type KPIShare struct {
	Key      string   `json:"key"`
	Total    float64  `json:"total"`
	SharePct *float64 `json:"share_pct"`
}

// KPISet is the dashboard's headline card block. AverageSales is null
// when the table has no numeric measure cells; the engine-level NaN
// sentinel never leaks into JSON.
type KPISet struct {
	TotalSales   float64   `json:"total_sales"`
	AverageSales *float64  `json:"average_sales"`
	RowCount     int       `json:"row_count"`
	TopItemType  *KPIShare `json:"top_item_type"`
	BestOutlet   *KPIShare `json:"best_outlet"`
}

// KPIs assembles the card block from the schema bindings. The best-outlet
// card prefers the outlet identifier column and falls back to outlet
// type; the card is omitted when neither exists. The top-category card is
// omitted when the item-type column is absent.
func KPIs(t *dataset.Table, s dataset.Schema) (*KPISet, error) {
	total, err := Total(t, s.Measure)
	if err != nil {
		return nil, err
	}
	avg, err := Average(t, s.Measure)
	if err != nil {
		return nil, err
	}

	set := &KPISet{
		TotalSales: total,
		RowCount:   t.Rows(),
	}
	if !math.IsNaN(avg) {
		set.AverageSales = &avg
	}

	if t.HasColumn(s.ItemType) {
		top, err := TopGroup(t, s.ItemType, s.Measure)
		if err != nil {
			return nil, err
		}
		set.TopItemType = share(top, total)
	}

	outletKey := s.OutletID
	if !t.HasColumn(outletKey) {
		outletKey = s.OutletType
	}
	if t.HasColumn(outletKey) {
		best, err := TopGroup(t, outletKey, s.Measure)
		if err != nil {
			return nil, err
		}
		set.BestOutlet = share(best, total)
	}

	return set, nil
}

func share(g *GroupSum, total float64) *KPIShare {
	if g == nil {
		return nil
	}
	s := &KPIShare{Key: g.Key, Total: g.Total}
	if total != 0 {
		pct := RoundTo2(g.Total / total * 100)
		s.SharePct = &pct
	}
	return s
}
