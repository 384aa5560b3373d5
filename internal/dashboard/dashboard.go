// Package dashboard binds the dataset store and schema to the fixed set
// of named charts and KPI cards the page shows. It owns names and titles
// only; every number comes from the analytics and charts packages.
package dashboard

import (
	"errors"
	"fmt"

	"retail-dashboard/internal/analytics"
	"retail-dashboard/internal/charts"
	"retail-dashboard/internal/dataset"
)

// ErrUnknownChart is returned for chart names outside the fixed set.
var ErrUnknownChart = errors.New("unknown chart")

// Options carries the chart knobs that come from configuration rather
// than the schema.
type Options struct {
	DateColumn     string
	TrendFrequency charts.Frequency
	HistogramBins  int
}

type Dashboard struct {
	store *dataset.Store
	opts  Options
}

func New(store *dataset.Store, opts Options) *Dashboard {
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = 30
	}
	if opts.TrendFrequency == "" {
		opts.TrendFrequency = charts.FreqMonth
	}
	return &Dashboard{store: store, opts: opts}
}

type binding struct {
	name  string
	build func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error)
}

// bindings fixes the dashboard's chart set and page order.
var bindings = []binding{
	{"sales-trend", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Trend(t, s.Measure, d.opts.DateColumn, s.Year, d.opts.TrendFrequency, "Sales Trend")
	}},
	{"price-distribution", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Distribution(t, s.Price, d.opts.HistogramBins, true, "Price Distribution")
	}},
	{"sales-by-item-type", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.RankedBar(t, s.ItemType, s.Measure, 0, true, "Sales by Item Type")
	}},
	{"sales-by-outlet-type", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.RankedBar(t, s.OutletType, s.Measure, 0, false, "Sales by Outlet Type")
	}},
	{"sales-by-outlet-size", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.RankedBar(t, s.OutletSize, s.Measure, 0, false, "Sales by Outlet Size")
	}},
	{"location-share", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Proportion(t, s.Location, s.Measure, "Sales Share by Location")
	}},
	{"visibility-vs-sales", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Scatter(t, s.Visibility, s.Measure, s.OutletType,
			[]string{s.OutletType, s.Location}, "Item Visibility vs Sales")
	}},
	{"sales-spread", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Box(t, s.OutletType, s.Measure, true, "Sales Spread by Outlet Type")
	}},
	{"correlation", func(d *Dashboard, t *dataset.Table, s dataset.Schema) (*charts.Spec, error) {
		return charts.Heatmap(t, s.Correlates, "Correlation Matrix")
	}},
}

// Names lists the chart set in page order.
func (d *Dashboard) Names() []string {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.name
	}
	return names
}

// Chart builds one named chart against the current snapshot.
func (d *Dashboard) Chart(name string) (*charts.Spec, error) {
	t, err := d.store.Snapshot()
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		if b.name == name {
			return b.build(d, t, d.store.Schema())
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
}

// Charts builds every chart that can be built against the current
// snapshot. Charts whose columns are absent are reported in the second
// map instead of failing the whole set.
func (d *Dashboard) Charts() (map[string]*charts.Spec, map[string]string, error) {
	t, err := d.store.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	specs := make(map[string]*charts.Spec, len(bindings))
	failed := make(map[string]string)
	for _, b := range bindings {
		spec, err := b.build(d, t, d.store.Schema())
		if err != nil {
			failed[b.name] = err.Error()
			continue
		}
		specs[b.name] = spec
	}
	return specs, failed, nil
}

// KPIs assembles the card block against the current snapshot.
func (d *Dashboard) KPIs() (*analytics.KPISet, error) {
	t, err := d.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.KPIs(t, d.store.Schema())
}

// Store exposes the underlying store for admin handlers.
func (d *Dashboard) Store() *dataset.Store { return d.store }
