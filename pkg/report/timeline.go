package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

const monthLayout = "2006-01"

// ErrNoTimestamps is returned when no row carries a timestamp.
var ErrNoTimestamps = errors.New("no timestamps to plot")

// Timeline holds per-month transition counts over a contiguous month range.
type Timeline struct {
	Months     []string
	Introduced []int
	Removed    []int
}

// MonthlyTimeline buckets the rows' latest introduction and removal times
// by UTC month. Months without transitions inside the range are kept with
// zero counts.
func MonthlyTimeline(rows []lifecycle.Row) Timeline {
	introduced := make(map[string]int)
	removed := make(map[string]int)

	var first, last time.Time

	observe := func(t *time.Time, counts map[string]int) {
		if t == nil {
			return
		}

		month := time.Date(t.UTC().Year(), t.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month.Format(monthLayout)]++

		if first.IsZero() || month.Before(first) {
			first = month
		}

		if month.After(last) {
			last = month
		}
	}

	for _, row := range rows {
		observe(row.Introduced, introduced)
		observe(row.Removed, removed)
	}

	var tl Timeline

	if first.IsZero() {
		return tl
	}

	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		key := month.Format(monthLayout)
		tl.Months = append(tl.Months, key)
		tl.Introduced = append(tl.Introduced, introduced[key])
		tl.Removed = append(tl.Removed, removed[key])
	}

	return tl
}

// WriteTimeline renders the monthly timeline of rows as a standalone HTML
// bar chart.
func WriteTimeline(w io.Writer, title string, rows []lifecycle.Row) error {
	tl := MonthlyTimeline(rows)
	if len(tl.Months) == 0 {
		return ErrNoTimestamps
	}

	const fullZoomPct = 100

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Comments introduced and removed per month (latest transition per comment)",
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: fullZoomPct}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Comments"}),
	)
	bar.SetXAxis(tl.Months)
	bar.AddSeries("Introduced", barData(tl.Introduced), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#91cc75"}))
	bar.AddSeries("Removed", barData(tl.Removed), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ee6666"}))

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render timeline: %w", err)
	}

	return nil
}

func barData(values []int) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	return data
}
