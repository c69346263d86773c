// Package view renders the explorer page.
package view

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
)

//go:embed templates/index.html.tmpl
var templates embed.FS

// Data is the page model. It never carries the API key.
type Data struct {
	Query           string
	MaxResults      int
	MinResults      int
	MaxResultsLimit int
	MaxQueryLen     int
	Error           string
	Result          *Result
}

// NewData returns page data with the form defaults filled in.
func NewData(query string, maxResults int) Data {
	if maxResults == 0 {
		maxResults = service.DefaultResults
	}
	return Data{
		Query:           query,
		MaxResults:      maxResults,
		MinResults:      service.MinResults,
		MaxResultsLimit: service.MaxResults,
		MaxQueryLen:     middleware.MaxQueryLen,
	}
}

// Result is the status line, table and charts of a successful run.
type Result struct {
	Status string
	Rows   []Row
	Charts []Chart
}

// Row is a table row formatted for display.
type Row struct {
	VideoID      string
	Title        string
	Channel      string
	PublishTime  string
	Views        string
	Likes        string
	Comments     string
	PublishHour  string
	PublishDay   string
	PublishMonth string
}

// Chart is one inline SVG with its heading.
type Chart struct {
	Title string
	SVG   template.HTML
}

// Page renders the explorer template.
type Page struct {
	tmpl    *template.Template
	printer *message.Printer
}

// NewPage parses the embedded template.
func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Page{
		tmpl:    tmpl,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Render writes the page.
func (p *Page) Render(w io.Writer, data Data) error {
	return p.tmpl.ExecuteTemplate(w, "index.html.tmpl", data)
}

// NewResult converts a successful run into display form. Rows keep
// the table order.
func (p *Page) NewResult(res service.Result) *Result {
	if !res.OK() || res.Report == nil {
		return nil
	}
	out := &Result{
		Status: res.Report.Status,
		Rows:   make([]Row, 0, res.Table.Len()),
	}
	for _, r := range res.Table.Rows {
		out.Rows = append(out.Rows, p.row(r))
	}
	if res.Charts != nil {
		out.Charts = []Chart{
			// SVG produced by gonum/plot from numeric data and fixed labels.
			{Title: "📊 Likes vs Views", SVG: template.HTML(res.Charts.LikesVsViews)},
			{Title: "📅 Views by Publish Day", SVG: template.HTML(res.Charts.ViewsByDay)},
			{Title: "⏰ Views by Publish Hour", SVG: template.HTML(res.Charts.ViewsByHour)},
			{Title: "📊 Correlation Heatmap of Engagement Metrics", SVG: template.HTML(res.Charts.Correlation)},
		}
	}
	return out
}

func (p *Page) row(r model.VideoRecord) Row {
	row := Row{
		VideoID:    r.VideoID,
		Title:      r.Title,
		Channel:    r.Channel,
		Views:      p.FormatCount(r.Views),
		Likes:      p.FormatCount(r.Likes),
		Comments:   p.FormatCount(r.Comments),
		PublishDay: r.PublishDay,
	}
	if r.PublishTime.Valid {
		row.PublishTime = r.PublishTime.Time.Format(time.DateTime + "Z07:00")
	}
	if r.PublishHour.Valid {
		row.PublishHour = strconv.Itoa(r.PublishHour.Value)
	}
	if r.PublishMonth != 0 {
		row.PublishMonth = strconv.Itoa(r.PublishMonth)
	}
	return row
}

// FormatCount renders a counter with thousands separators, or "None" when missing.
func (p *Page) FormatCount(n model.NullCount) string {
	if !n.Valid {
		return "None"
	}
	return p.printer.Sprintf("%d", n.Value)
}
