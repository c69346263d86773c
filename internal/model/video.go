package model

import (
	"encoding/json"
	"math"
	"time"
)

// NullCount is an engagement counter that may be missing after numeric coercion.
type NullCount struct {
	Value int64
	Valid bool
}

// Count returns a valid counter.
func Count(v int64) NullCount {
	return NullCount{Value: v, Valid: true}
}

// Float returns the counter as float64, or NaN when missing.
func (n NullCount) Float() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return float64(n.Value)
}

func (n NullCount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NullInt is a small integer feature (e.g. publish hour) that may be missing.
type NullInt struct {
	Value int
	Valid bool
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NullTime is a publish timestamp that failed to parse when Valid is false.
type NullTime struct {
	Time  time.Time
	Valid bool
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}

// VideoRecord is one row of the explorer table. It lives for a single
// query/render cycle and is never stored.
type VideoRecord struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	PublishTime  NullTime  `json:"publishTime"`
	Views        NullCount `json:"views"`
	Likes        NullCount `json:"likes"`
	Comments     NullCount `json:"comments"`
	PublishHour  NullInt   `json:"publishHour"`
	PublishDay   string    `json:"publishDay,omitempty"`
	PublishMonth int       `json:"publishMonth,omitempty"`
}

// Table is the ordered set of records produced for one query.
// Row order is the order the details endpoint returned them in.
type Table struct {
	Rows []VideoRecord `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Views returns the views column, NaN where missing.
func (t Table) Views() []float64 {
	return t.column(func(r VideoRecord) NullCount { return r.Views })
}

// Likes returns the likes column, NaN where missing.
func (t Table) Likes() []float64 {
	return t.column(func(r VideoRecord) NullCount { return r.Likes })
}

// Comments returns the comments column, NaN where missing.
func (t Table) Comments() []float64 {
	return t.column(func(r VideoRecord) NullCount { return r.Comments })
}

func (t Table) column(get func(VideoRecord) NullCount) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = get(r).Float()
	}
	return out
}

// WeekdayOrder is the fixed category order of the views-by-day chart.
var WeekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
