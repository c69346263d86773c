package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/youtube"
)

// Statistics keys of a videos.list item.
const (
	statViews    = "viewCount"
	statLikes    = "likeCount"
	statComments = "commentCount"
)

// Shaped is the output of the shape stage.
type Shaped struct {
	Table model.Table
	// Dropped counts rows removed for a missing publish hour or view count.
	Dropped int
}

// Shape flattens details items into table rows, derives the calendar
// features and drops rows that cannot be plotted. Row order follows items.
func Shape(items []youtube.VideoItem) Shaped {
	rows := make([]model.VideoRecord, 0, len(items))
	dropped := 0
	for _, item := range items {
		rec := ShapeRecord(item)
		if !rec.PublishHour.Valid || !rec.Views.Valid {
			dropped++
			continue
		}
		rows = append(rows, rec)
	}
	return Shaped{Table: model.Table{Rows: rows}, Dropped: dropped}
}

// ShapeRecord converts one details item without filtering it.
func ShapeRecord(item youtube.VideoItem) model.VideoRecord {
	rec := model.VideoRecord{
		VideoID:     item.ID,
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		PublishTime: ParsePublishTime(item.Snippet.PublishedAt),
		Views:       CoerceCount(statistic(item.Statistics, statViews)),
		Likes:       CoerceCount(statistic(item.Statistics, statLikes)),
		Comments:    CoerceCount(statistic(item.Statistics, statComments)),
	}
	if rec.PublishTime.Valid {
		t := rec.PublishTime.Time
		rec.PublishHour = model.NullInt{Value: t.Hour(), Valid: true}
		rec.PublishDay = t.Weekday().String()
		rec.PublishMonth = int(t.Month())
	}
	return rec
}

// statistic extracts a raw counter; an absent key reads as zero.
func statistic(stats map[string]any, key string) any {
	v, ok := stats[key]
	if !ok {
		return "0"
	}
	return v
}

// CoerceCount converts a raw counter to a non-negative integer. Empty,
// non-numeric, fractional and negative values come back missing, not zero.
func CoerceCount(raw any) model.NullCount {
	switch v := raw.(type) {
	case string:
		return parseCount(v)
	case json.Number:
		return parseCount(v.String())
	case float64:
		return countFromFloat(v)
	case int:
		return countFromFloat(float64(v))
	case int64:
		return countFromFloat(float64(v))
	default:
		return model.NullCount{}
	}
}

func parseCount(s string) model.NullCount {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.NullCount{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return model.NullCount{}
		}
		return model.Count(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.NullCount{}
	}
	return countFromFloat(f)
}

func countFromFloat(f float64) model.NullCount {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return model.NullCount{}
	}
	return model.Count(int64(f))
}

// ParsePublishTime parses an RFC 3339 timestamp. Failures yield an invalid
// NullTime so the row is dropped with the other hour-less rows.
func ParsePublishTime(s string) model.NullTime {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return model.NullTime{}
	}
	return model.NullTime{Time: t, Valid: true}
}
