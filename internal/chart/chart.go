// Package chart draws the explorer report as SVG using gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
)

var (
	pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	boxColor   = color.RGBA{R: 174, G: 199, B: 232, A: 255}
	nanColor   = color.Gray{Y: 220}
)

// Renderer turns a report into four SVG charts.
type Renderer struct{}

// Render draws all charts. Any failure fails the whole render.
func (Renderer) Render(r model.Report) (model.Charts, error) {
	var (
		out model.Charts
		err error
	)
	if out.LikesVsViews, err = LikesVsViews(r.LikesVsViews); err != nil {
		return model.Charts{}, fmt.Errorf("likes vs views chart: %w", err)
	}
	if out.ViewsByDay, err = ViewsByDay(r.ViewsByDay); err != nil {
		return model.Charts{}, fmt.Errorf("views by day chart: %w", err)
	}
	if out.ViewsByHour, err = ViewsByHour(r.ViewsByHour, r.HourLabels); err != nil {
		return model.Charts{}, fmt.Errorf("views by hour chart: %w", err)
	}
	if out.Correlation, err = Heatmap(r.Correlation); err != nil {
		return model.Charts{}, fmt.Errorf("correlation heatmap: %w", err)
	}
	return out, nil
}

// LikesVsViews is a scatter of likes (x) against views (y).
func LikesVsViews(points []model.Point) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Likes vs Views"
	p.X.Label.Text = "likes"
	p.Y.Label.Text = "views"

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X = pt.Likes
			xys[i].Y = pt.Views
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Color = pointColor
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
	}
	p.Add(plotter.NewGrid())

	return toSVG(p, 10*vg.Inch, 5*vg.Inch)
}

// ViewsByDay is a box plot per weekday. Every weekday gets a slot on
// the axis, including days with no videos.
func ViewsByDay(groups []model.DayGroup) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Views by Day of the Week"
	p.X.Label.Text = "publish_day"
	p.Y.Label.Text = "views"

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Day
		if len(g.Views) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(28), float64(i), plotter.Values(g.Views))
		if err != nil {
			return nil, err
		}
		b.FillColor = boxColor
		p.Add(b)
	}
	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(groups)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight

	return toSVG(p, 10*vg.Inch, 5*vg.Inch)
}

// ViewsByHour is a line of mean views per publish hour, with all 24
// hours labelled on a 12-hour clock.
func ViewsByHour(means []model.HourMean, labels []string) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Average Views by Publish Hour"
	p.X.Label.Text = "Publish Hour"
	p.Y.Label.Text = "Views"

	if len(means) > 0 {
		xys := make(plotter.XYs, len(means))
		for i, m := range means {
			xys[i].X = float64(m.Hour)
			xys[i].Y = m.Mean
		}
		line, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		line.Color = pointColor
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		pts.GlyphStyle.Color = pointColor
		p.Add(line, pts)
		p.Legend.Add("Mean", line, pts)
	}

	ticks := make([]plot.Tick, len(labels))
	for h, l := range labels {
		ticks[h] = plot.Tick{Value: float64(h), Label: l}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = 0
	p.X.Max = float64(len(labels) - 1)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight

	return toSVG(p, 10*vg.Inch, 5*vg.Inch)
}

// Heatmap draws the correlation matrix on a blue-red scale over [-1, 1]
// with each cell annotated to two decimals.
func Heatmap(m model.CorrelationMatrix) ([]byte, error) {
	n := len(m.Columns)
	p := plot.New()
	p.Title.Text = "Correlation Heatmap of Engagement Metrics"
	if n == 0 {
		return toSVG(p, 8*vg.Inch, 6*vg.Inch)
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	cm.SetConvergePoint(0)

	grid := corrGrid{values: m.Values}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = nanColor
	p.Add(hm)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, Annotate(grid.Z(c, r)))
		}
	}
	lbls, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range lbls.TextStyle {
		lbls.TextStyle[i].XAlign = text.XCenter
		lbls.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(lbls)

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i := 0; i < n; i++ {
		xTicks[i] = plot.Tick{Value: float64(i), Label: m.Columns[i]}
		yTicks[i] = plot.Tick{Value: float64(i), Label: m.Columns[n-1-i]}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	return toSVG(p, 8*vg.Inch, 6*vg.Inch)
}

// Annotate formats a heat map cell.
func Annotate(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// corrGrid exposes a square matrix as a GridXYZ with row 0 drawn at the top.
type corrGrid struct {
	values [][]float64
}

func (g corrGrid) Dims() (c, r int) {
	return len(g.values), len(g.values)
}

func (g corrGrid) Z(c, r int) float64 {
	return g.values[len(g.values)-1-r][c]
}

func (g corrGrid) X(c int) float64 {
	return float64(c)
}

func (g corrGrid) Y(r int) float64 {
	return float64(r)
}

func toSVG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	c := vgsvg.New(w, h)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return inline(buf.Bytes()), nil
}

// inline drops the XML prolog so the document can sit inside HTML.
func inline(svg []byte) []byte {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		return svg[i:]
	}
	return svg
}
