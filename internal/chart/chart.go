// Package chart draws the 24-hour forecast chart: temperature as a filled area and
// precipitation as bars on a secondary axis, sharing one hourly time axis.
package chart

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"forecastx/internal/models"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400

	marginLeft   = 60.0
	marginRight  = 60.0
	marginTop    = 50.0
	marginBottom = 45.0

	temperatureColor   = "#e4572e"
	precipitationColor = "#1f77b4"
	gridColor          = "#e6e6e6"
	axisColor          = "#555555"
)

type Options struct {
	Width  int
	Height int
	// TimeLayout formats the hour labels on the x axis.
	TimeLayout string
	// LabelEvery draws an hour label on every n-th point.
	LabelEvery int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.TimeLayout == "" {
		o.TimeLayout = "15:04"
	}
	if o.LabelEvery <= 0 {
		o.LabelEvery = 3
	}
	return o
}

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			fontsErr = errors.Wrap(fontsErr, "failed to parse regular font")
			return
		}
		if bold, fontsErr = truetype.Parse(gobold.TTF); fontsErr != nil {
			fontsErr = errors.Wrap(fontsErr, "failed to parse bold font")
		}
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Title is the chart heading for a resolved location label.
func Title(location string) string {
	if location == "" {
		return "24 Hour Forecast"
	}
	return "24 Hour Forecast - " + location
}

// ResultTitle is the heading for result: the resolved location when found, the bare title otherwise.
func ResultTitle(result models.ForecastResult) string {
	if !result.IsFound() {
		return Title("")
	}
	return Title(result.Location.DisplayName())
}

// RenderResult renders the hourly window of result, or an empty chart when it was not found.
func RenderResult(w io.Writer, result models.ForecastResult, opts Options) error {
	return Render(w, ResultTitle(result), result.Chart(), opts)
}

// Render writes the chart as PNG. An empty dataset gives an empty framed chart.
func Render(w io.Writer, title string, data models.ChartData, opts Options) error {
	opts = opts.withDefaults()
	if err := loadFonts(); err != nil {
		return err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	p := newPlot(dc, data)

	dc.SetFontFace(face(bold, 18))
	dc.SetHexColor("#222222")
	dc.DrawStringAnchored(title, float64(opts.Width)/2, marginTop/2, 0.5, 0.5)

	p.drawFrame()

	if p.n == 0 {
		dc.SetFontFace(face(regular, 16))
		dc.SetHexColor("#999999")
		dc.DrawStringAnchored("No forecast data", p.left+p.width/2, p.top+p.height/2, 0.5, 0.5)
		return errors.Wrap(dc.EncodePNG(w), "failed to encode chart")
	}

	dc.SetFontFace(face(regular, 11))
	p.drawAxes(data, opts)
	p.drawPrecipitation(data.PrecipitationMm)
	p.drawTemperature(data.TemperatureC)
	p.drawLegend()

	return errors.Wrap(dc.EncodePNG(w), "failed to encode chart")
}

type plot struct {
	dc *gg.Context
	n  int

	left, top, width, height float64

	tempMin, tempMax float64
	precipMax        float64
}

func newPlot(dc *gg.Context, data models.ChartData) *plot {
	n := min(data.Len(), len(data.TemperatureC), len(data.PrecipitationMm))
	p := &plot{
		dc:     dc,
		n:      n,
		left:   marginLeft,
		top:    marginTop,
		width:  float64(dc.Width()) - marginLeft - marginRight,
		height: float64(dc.Height()) - marginTop - marginBottom,
	}

	p.tempMin, p.tempMax = math.Inf(1), math.Inf(-1)
	for _, t := range data.TemperatureC[:n] {
		p.tempMin = math.Min(p.tempMin, t)
		p.tempMax = math.Max(p.tempMax, t)
	}
	if n == 0 {
		p.tempMin, p.tempMax = 0, 1
	}
	// whole degrees with a little headroom
	p.tempMin = math.Floor(p.tempMin) - 1
	p.tempMax = math.Ceil(p.tempMax) + 1

	// at least 1mm so that drizzle does not fill the whole axis
	p.precipMax = 1
	for _, v := range data.PrecipitationMm[:n] {
		p.precipMax = math.Max(p.precipMax, v)
	}

	return p
}

func (p *plot) bottom() float64 {
	return p.top + p.height
}

func (p *plot) slot() float64 {
	return p.width / float64(p.n)
}

// x is the centre of the i-th hourly slot.
func (p *plot) x(i int) float64 {
	return p.left + (float64(i)+0.5)*p.slot()
}

func (p *plot) yTemp(t float64) float64 {
	return p.bottom() - (t-p.tempMin)/(p.tempMax-p.tempMin)*p.height
}

func (p *plot) yPrecip(v float64) float64 {
	return p.bottom() - v/p.precipMax*p.height
}

func (p *plot) drawFrame() {
	p.dc.SetHexColor(axisColor)
	p.dc.SetLineWidth(1)
	p.dc.DrawRectangle(p.left, p.top, p.width, p.height)
	p.dc.Stroke()
}

func (p *plot) drawAxes(data models.ChartData, opts Options) {
	dc := p.dc
	const ticks = 5

	for i := 0; i <= ticks; i++ {
		frac := float64(i) / ticks
		y := p.bottom() - frac*p.height

		if i > 0 && i < ticks {
			dc.SetHexColor(gridColor)
			dc.DrawLine(p.left, y, p.left+p.width, y)
			dc.Stroke()
		}

		dc.SetHexColor(temperatureColor)
		temp := p.tempMin + frac*(p.tempMax-p.tempMin)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f°C", temp), p.left-6, y, 1, 0.5)

		dc.SetHexColor(precipitationColor)
		dc.DrawStringAnchored(fmt.Sprintf("%.1f mm", frac*p.precipMax), p.left+p.width+6, y, 0, 0.5)
	}

	dc.SetHexColor(axisColor)
	for i := 0; i < p.n; i += opts.LabelEvery {
		dc.DrawLine(p.x(i), p.bottom(), p.x(i), p.bottom()+4)
		dc.Stroke()
		dc.DrawStringAnchored(data.Times[i].Format(opts.TimeLayout), p.x(i), p.bottom()+8, 0.5, 1)
	}
}

func (p *plot) drawPrecipitation(values []float64) {
	dc := p.dc
	barWidth := p.slot() * 0.6

	// precipitationColor at 45% so the temperature line stays readable through the bars
	dc.SetRGBA(0.122, 0.467, 0.706, 0.45)

	for i, v := range values[:p.n] {
		if v <= 0 {
			continue
		}
		top := p.yPrecip(v)
		dc.DrawRectangle(p.x(i)-barWidth/2, top, barWidth, p.bottom()-top)
		dc.Fill()
	}
}

func (p *plot) drawTemperature(values []float64) {
	dc := p.dc

	// filled area down to the baseline
	dc.MoveTo(p.x(0), p.bottom())
	for i, t := range values[:p.n] {
		dc.LineTo(p.x(i), p.yTemp(t))
	}
	dc.LineTo(p.x(p.n-1), p.bottom())
	dc.ClosePath()
	dc.SetRGBA(0.894, 0.341, 0.180, 0.25)
	dc.Fill()

	dc.SetHexColor(temperatureColor)
	dc.SetLineWidth(2)
	for i, t := range values[:p.n] {
		dc.LineTo(p.x(i), p.yTemp(t))
	}
	dc.Stroke()
	dc.SetLineWidth(1)
}

func (p *plot) drawLegend() {
	dc := p.dc
	x := p.left + 8
	y := p.top + 10

	dc.SetHexColor(temperatureColor)
	dc.DrawRectangle(x, y-5, 12, 10)
	dc.Fill()
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored("Temperature (°C)", x+18, y, 0, 0.5)

	x += 130
	dc.SetRGBA(0.122, 0.467, 0.706, 0.45)
	dc.DrawRectangle(x, y-5, 12, 10)
	dc.Fill()
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored("Precipitation (mm)", x+18, y, 0, 0.5)
}
