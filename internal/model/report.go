package model

import (
	"encoding/json"
	"math"
)

// Point is a single likes/views observation on the scatter chart.
type Point struct {
	VideoID string  `json:"videoId"`
	Likes   float64 `json:"likes"`
	Views   float64 `json:"views"`
}

// BoxSummary holds the five-number summary of one weekday group.
type BoxSummary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DayGroup is the views distribution for one weekday. Summary is nil
// for weekdays with no records.
type DayGroup struct {
	Day     string      `json:"day"`
	Views   []float64   `json:"views"`
	Summary *BoxSummary `json:"summary,omitempty"`
}

// HourMean is the mean view count of videos published in one hour.
type HourMean struct {
	Hour  int     `json:"hour"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// CorrelationMatrix is a square matrix of pairwise Pearson coefficients.
// Undefined cells are NaN and encode as JSON null.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient between two named columns, NaN if unknown.
func (m CorrelationMatrix) At(row, col string) float64 {
	i, j := m.index(row), m.index(col)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m CorrelationMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values[i][j] = &v
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// Report is everything the presentation layer draws for one table.
type Report struct {
	Status       string            `json:"status"`
	Count        int               `json:"count"`
	LikesVsViews []Point           `json:"likesVsViews"`
	ViewsByDay   []DayGroup        `json:"viewsByDay"`
	HourLabels   []string          `json:"hourLabels"`
	ViewsByHour  []HourMean        `json:"viewsByHour"`
	Correlation  CorrelationMatrix `json:"correlation"`
}

// Charts holds the four rendered SVG documents.
type Charts struct {
	LikesVsViews []byte
	ViewsByDay   []byte
	ViewsByHour  []byte
	Correlation  []byte
}
