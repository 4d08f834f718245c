package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rustyeddy/stockview/market"
)

// Candlesticks implements plot.Plotter. Candle i is drawn at x = i, so it
// pairs with Plot.NominalX labels.
type Candlesticks struct {
	Candles []market.Candle

	// BodyWidth is the body width as a fraction of the spacing between
	// candles.
	BodyWidth float64

	Up   color.Color
	Down color.Color

	// LineStyle draws the low-high whisker and body outline.
	draw.LineStyle
}

func NewCandlesticks(cs []market.Candle) *Candlesticks {
	return &Candlesticks{
		Candles:   cs,
		BodyWidth: 0.6,
		Up:        upColor,
		Down:      downColor,
		LineStyle: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(1),
		},
	}
}

// Plot draws one whisker and one body per candle. A flat candle has no body
// and gets a horizontal tick at its open.
func (k *Candlesticks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	half := vg.Length(0)
	if len(k.Candles) > 0 {
		half = (trX(1) - trX(0)) * vg.Length(k.BodyWidth) / 2
	}

	for i, cd := range k.Candles {
		x := trX(float64(i))
		c.StrokeLines(k.LineStyle, c.ClipLinesXY([]vg.Point{
			{X: x, Y: trY(cd.Low)},
			{X: x, Y: trY(cd.High)},
		})...)

		if cd.Open == cd.Close {
			y := trY(cd.Open)
			c.StrokeLines(k.LineStyle, c.ClipLinesXY([]vg.Point{
				{X: x - half, Y: y},
				{X: x + half, Y: y},
			})...)
			continue
		}

		fill := k.Up
		if cd.Close < cd.Open {
			fill = k.Down
		}
		bottom, top := trY(min(cd.Open, cd.Close)), trY(max(cd.Open, cd.Close))
		body := []vg.Point{
			{X: x - half, Y: bottom},
			{X: x + half, Y: bottom},
			{X: x + half, Y: top},
			{X: x - half, Y: top},
		}
		c.FillPolygon(fill, c.ClipPolygonXY(body))
		c.StrokeLines(k.LineStyle, c.ClipLinesXY(append(body, body[0]))...)
	}
}

// DataRange implements plot.DataRanger.
func (k *Candlesticks) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(k.Candles) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = -0.5, float64(len(k.Candles))-0.5
	ymin, ymax = k.Candles[0].Low, k.Candles[0].High
	for _, cd := range k.Candles[1:] {
		ymin = min(ymin, cd.Low)
		ymax = max(ymax, cd.High)
	}
	return xmin, xmax, ymin, ymax
}
