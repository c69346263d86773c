package service

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
)

// Correlated columns, in heat map order.
var CorrelationColumns = []string{"views", "likes", "comments"}

// StatusLine is the confirmation shown above the table.
func StatusLine(n int) string {
	return fmt.Sprintf("Retrieved %d videos!", n)
}

// HourLabel renders an hour of day on a 12-hour clock, e.g. 0 -> "12AM", 13 -> "1PM".
func HourLabel(h int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	hh := h % 12
	if hh == 0 {
		hh = 12
	}
	return fmt.Sprintf("%d%s", hh, suffix)
}

// HourLabels returns the labels for hours 0 through 23.
func HourLabels() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = HourLabel(h)
	}
	return labels
}

// BuildReport computes the data behind the status line and the four charts.
// It is recomputed from the full table on every call.
func BuildReport(t model.Table) model.Report {
	return model.Report{
		Status:       StatusLine(t.Len()),
		Count:        t.Len(),
		LikesVsViews: LikesVsViews(t),
		ViewsByDay:   ViewsByDay(t),
		HourLabels:   HourLabels(),
		ViewsByHour:  ViewsByHour(t),
		Correlation:  Correlation(t),
	}
}

// LikesVsViews returns one point per record that has both counters.
func LikesVsViews(t model.Table) []model.Point {
	points := make([]model.Point, 0, t.Len())
	for _, r := range t.Rows {
		if !r.Likes.Valid || !r.Views.Valid {
			continue
		}
		points = append(points, model.Point{
			VideoID: r.VideoID,
			Likes:   float64(r.Likes.Value),
			Views:   float64(r.Views.Value),
		})
	}
	return points
}

// ViewsByDay groups views by publish weekday, always Monday through Sunday.
func ViewsByDay(t model.Table) []model.DayGroup {
	groups := make([]model.DayGroup, len(model.WeekdayOrder))
	index := make(map[string]int, len(groups))
	for i, d := range model.WeekdayOrder {
		groups[i] = model.DayGroup{Day: d.String(), Views: []float64{}}
		index[d.String()] = i
	}

	for _, r := range t.Rows {
		i, ok := index[r.PublishDay]
		if !ok || !r.Views.Valid {
			continue
		}
		groups[i].Views = append(groups[i].Views, float64(r.Views.Value))
	}

	for i := range groups {
		groups[i].Summary = boxSummary(groups[i].Views)
	}
	return groups
}

func boxSummary(values []float64) *model.BoxSummary {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return &model.BoxSummary{
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// ViewsByHour returns the mean view count for each publish hour present
// in the table, ascending. Hours without records are absent.
func ViewsByHour(t model.Table) []model.HourMean {
	byHour := make(map[int][]float64)
	for _, r := range t.Rows {
		if !r.PublishHour.Valid || !r.Views.Valid {
			continue
		}
		byHour[r.PublishHour.Value] = append(byHour[r.PublishHour.Value], float64(r.Views.Value))
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	means := make([]model.HourMean, 0, len(hours))
	for _, h := range hours {
		means = append(means, model.HourMean{
			Hour:  h,
			Label: HourLabel(h),
			Mean:  stat.Mean(byHour[h], nil),
			Count: len(byHour[h]),
		})
	}
	return means
}

// Correlation computes the pairwise Pearson matrix over views, likes and comments.
func Correlation(t model.Table) model.CorrelationMatrix {
	cols := [][]float64{t.Views(), t.Likes(), t.Comments()}
	values := make([][]float64, len(cols))
	for i := range cols {
		values[i] = make([]float64, len(cols))
		for j := range cols {
			values[i][j] = Pearson(cols[i], cols[j])
		}
	}
	return model.CorrelationMatrix{
		Columns: append([]string(nil), CorrelationColumns...),
		Values:  values,
	}
}

// Pearson returns the linear correlation of x and y over the indices where
// both are present. It is NaN with fewer than two pairs or zero variance.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
