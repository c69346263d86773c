package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage()
	require.NoError(t, err)
	return p
}

func successResult() service.Result {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	table := model.Table{Rows: []model.VideoRecord{{
		VideoID:      "abc123",
		Title:        "Learn <Go>",
		Channel:      "Gophers",
		PublishTime:  model.NullTime{Time: at, Valid: true},
		Views:        model.Count(1234567),
		Likes:        model.NullCount{},
		Comments:     model.Count(0),
		PublishHour:  model.NullInt{Value: 10, Valid: true},
		PublishDay:   "Monday",
		PublishMonth: 1,
	}}}
	report := service.BuildReport(table)
	return service.Result{
		RunID:  "run-1",
		Table:  table,
		Report: &report,
		Charts: &model.Charts{
			LikesVsViews: []byte(`<svg id="lv"></svg>`),
			ViewsByDay:   []byte(`<svg id="vd"></svg>`),
			ViewsByHour:  []byte(`<svg id="vh"></svg>`),
			Correlation:  []byte(`<svg id="hm"></svg>`),
		},
	}
}

func TestFormatCount(t *testing.T) {
	p := newTestPage(t)
	tests := []struct {
		in   model.NullCount
		want string
	}{
		{model.Count(0), "0"},
		{model.Count(999), "999"},
		{model.Count(1234567), "1,234,567"},
		{model.NullCount{}, "None"},
	}
	for _, tt := range tests {
		if got := p.FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_EmptyForm(t *testing.T) {
	p := newTestPage(t)
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, NewData("", 0)))

	html := buf.String()
	assert.Contains(t, html, `name="api_key"`)
	assert.Contains(t, html, `type="password"`)
	assert.Contains(t, html, `min="5"`)
	assert.Contains(t, html, `max="50"`)
	assert.Contains(t, html, `value="10"`)
	assert.NotContains(t, html, "Retrieved")
	assert.NotContains(t, html, "Error:")
}

func TestRender_Success(t *testing.T) {
	p := newTestPage(t)
	data := NewData("education", 10)
	data.Result = p.NewResult(successResult())
	require.NotNil(t, data.Result)

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, data))
	html := buf.String()

	assert.Contains(t, html, "Retrieved 1 videos!")
	assert.Contains(t, html, "abc123")
	assert.Contains(t, html, "1,234,567")
	assert.Contains(t, html, "None")
	assert.Contains(t, html, "Learn &lt;Go&gt;", "titles are escaped")
	assert.Contains(t, html, `<svg id="hm"></svg>`, "charts are inlined unescaped")
	assert.Equal(t, 4, strings.Count(html, `<div class="chart">`))

	for _, title := range []string{"Likes vs Views", "Views by Publish Day", "Views by Publish Hour", "Correlation Heatmap"} {
		assert.Contains(t, html, title)
	}
}

func TestRender_ErrorShowsNoTable(t *testing.T) {
	p := newTestPage(t)
	data := NewData("education", 10)
	data.Error = "youtube api: 400 badRequest: API key not valid"

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, data))
	html := buf.String()

	assert.Equal(t, 1, strings.Count(html, "Error:"))
	assert.NotContains(t, html, "<table>")
	assert.NotContains(t, html, `class="chart"`)
}

func TestNewResult_Failure(t *testing.T) {
	p := newTestPage(t)
	assert.Nil(t, p.NewResult(service.Result{Failure: &service.Failure{Message: "boom"}}))
}

func TestNewResult_RowFormatting(t *testing.T) {
	p := newTestPage(t)
	res := p.NewResult(successResult())
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "2024-01-01 10:00:00Z", row.PublishTime)
	assert.Equal(t, "10", row.PublishHour)
	assert.Equal(t, "1", row.PublishMonth)
	assert.Equal(t, "None", row.Likes)
	assert.Equal(t, "0", row.Comments)
}

func TestNewResult_WithoutCharts(t *testing.T) {
	p := newTestPage(t)
	res := successResult()
	res.Charts = nil
	assert.Empty(t, p.NewResult(res).Charts)
}
