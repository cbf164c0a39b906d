// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"simviz/chartspec"
	"simviz/table"
)

const (
	chartWidth  = 900
	chartHeight = 380
)

var statsHeaders = []string{"Series", "Count", "Mean", "Min", "Max", "Std Dev"}

// ChartView is the interactive chart panel for one loaded table: axis
// selectors on the left, the rendered chart and the per-series summary
// statistics on the right. Every selection change rebuilds the chart
// request from scratch.
type ChartView struct {
	window fyne.Window
	table  *table.Table

	mark    chartspec.Mark
	xSelect *widget.Select
	yChecks map[string]*widget.Check
	yOrder  []string

	chartImage *canvas.Image
	statsTable *widget.Table
	request    *chartspec.Request
}

// NewChartView builds the chart panel for a table. Numeric columns are
// offered on both axes; timestamp and text columns only on the x-axis.
func NewChartView(w fyne.Window, t *table.Table, mark chartspec.Mark) *ChartView {
	cv := &ChartView{
		window:  w,
		table:   t,
		mark:    mark,
		yChecks: make(map[string]*widget.Check),
	}

	cv.xSelect = widget.NewSelect(t.Columns(), func(string) {
		cv.refresh()
	})

	numeric := t.NumericColumns()
	for _, name := range numeric {
		name := name
		check := widget.NewCheck(name, func(bool) {
			cv.refresh()
		})
		cv.yChecks[name] = check
		cv.yOrder = append(cv.yOrder, name)
	}

	// Default selection: first column as x, first numeric column that
	// differs from x as y.
	cols := t.Columns()
	cv.xSelect.Selected = cols[0]
	for _, name := range numeric {
		if name != cols[0] {
			cv.yChecks[name].Checked = true
			break
		}
	}
	if cv.selectedY() == nil && len(numeric) > 0 {
		cv.yChecks[numeric[0]].Checked = true
	}

	cv.chartImage = canvas.NewImageFromImage(blankChart(chartWidth, chartHeight))
	cv.chartImage.FillMode = canvas.ImageFillContain
	cv.chartImage.SetMinSize(fyne.NewSize(chartWidth/2, chartHeight/2))

	cv.statsTable = widget.NewTable(
		func() (int, int) {
			rows := 1
			if cv.request != nil {
				rows += len(cv.request.Series)
			}
			return rows, len(statsHeaders)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(statsHeaders[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			if cv.request == nil || id.Row-1 >= len(cv.request.Series) {
				lbl.SetText("")
				return
			}
			lbl.SetText(statsCell(cv.request.Series[id.Row-1], id.Col))
		},
	)
	cv.statsTable.SetColumnWidth(0, 160)
	for i := 1; i < len(statsHeaders); i++ {
		cv.statsTable.SetColumnWidth(i, 110)
	}

	cv.refresh()
	return cv
}

// SetMark switches between line and scatter rendering.
func (cv *ChartView) SetMark(mark chartspec.Mark) {
	if cv.mark == mark {
		return
	}
	cv.mark = mark
	cv.refresh()
}

// Container assembles the panel layout.
func (cv *ChartView) Container() fyne.CanvasObject {
	xLabel := widget.NewLabel("X Axis:")
	xLabel.TextStyle = fyne.TextStyle{Bold: true}

	yLabel := widget.NewLabel("Y Axis:")
	yLabel.TextStyle = fyne.TextStyle{Bold: true}

	yChecks := container.NewVBox()
	for _, name := range cv.yOrder {
		yChecks.Add(cv.yChecks[name])
	}
	yScroll := container.NewVScroll(yChecks)
	yScroll.SetMinSize(fyne.NewSize(180, 240))

	selectors := container.NewVBox(
		xLabel,
		cv.xSelect,
		widget.NewSeparator(),
		yLabel,
		yScroll,
	)

	statsScroll := container.NewVScroll(cv.statsTable)
	statsScroll.SetMinSize(fyne.NewSize(400, 160))

	right := container.NewBorder(
		nil,
		widget.NewCard("", "Summary Statistics", statsScroll),
		nil, nil,
		cv.chartImage,
	)

	return container.NewBorder(nil, nil, container.NewVBox(selectors), nil, right)
}

// selectedY returns the checked y-columns in display order.
func (cv *ChartView) selectedY() []string {
	var names []string
	for _, name := range cv.yOrder {
		if cv.yChecks[name].Checked {
			names = append(names, name)
		}
	}
	return names
}

// refresh rebuilds the chart request from the current selection and
// re-renders the chart and statistics.
func (cv *ChartView) refresh() {
	req, err := chartspec.Build(cv.table, cv.xSelect.Selected, cv.selectedY())
	if err != nil {
		cv.request = nil
		cv.statsTable.Refresh()
		cv.chartImage.Image = blankChart(chartWidth, chartHeight)
		cv.chartImage.Refresh()
		if !errors.Is(err, chartspec.ErrNoSeries) {
			dialog.ShowError(err, cv.window)
		}
		return
	}
	req.Mark = cv.mark

	cv.request = req
	cv.chartImage.Image = renderChart(req)
	cv.chartImage.Refresh()
	cv.statsTable.Refresh()
}

// statsCell formats one cell of the statistics table.
func statsCell(s chartspec.Series, col int) string {
	switch col {
	case 0:
		return s.Name
	case 1:
		return strconv.Itoa(s.Stats.Count)
	case 2:
		return formatStat(s.Stats.Mean, s.Stats.Count > 0)
	case 3:
		return formatStat(s.Stats.Min, s.Stats.Count > 0)
	case 4:
		return formatStat(s.Stats.Max, s.Stats.Count > 0)
	case 5:
		return formatStat(s.Stats.Std, s.Stats.HasStd)
	default:
		return ""
	}
}

func formatStat(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// markStyle returns a go-chart style for one series.
func markStyle(mark chartspec.Mark, col drawing.Color) chart.Style {
	if mark == chartspec.MarkScatter {
		return chart.Style{
			StrokeWidth: 0,
			DotWidth:    4,
			DotColor:    col,
		}
	}
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// renderChart rasterizes a chart request to an image via go-chart.
// Render failures fall back to a blank image so the UI still updates.
func renderChart(req *chartspec.Request) image.Image {
	series := make([]chart.Series, 0, len(req.Series))

	for i, s := range req.Series {
		st := markStyle(req.Mark, chart.GetDefaultColor(i))

		switch req.X.Kind {
		case table.KindTimestamp:
			xs, ys := timePoints(req.X, s)
			if len(xs) == 0 {
				continue
			}
			if len(xs) == 1 {
				// go-chart cannot render single-point ranges
				xs = append(xs, xs[0])
				ys = append(ys, ys[0])
			}
			series = append(series, chart.TimeSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st})

		default:
			xs, ys := numericPoints(req.X, s)
			if len(xs) == 0 {
				continue
			}
			if len(xs) == 1 {
				xs = append(xs, xs[0])
				ys = append(ys, ys[0])
			}
			series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st})
		}
	}

	if len(series) == 0 {
		return blankChart(chartWidth, chartHeight)
	}

	ch := chart.Chart{
		Title:      req.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: req.X.Name},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("chart render error: %v\n", err)
		return blankChart(chartWidth, chartHeight)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("chart decode error: %v\n", err)
		return blankChart(chartWidth, chartHeight)
	}
	return img
}

// numericPoints pairs x and y values, skipping rows where either side is
// missing. Text x-columns fall back to the row index.
func numericPoints(x chartspec.Axis, s chartspec.Series) ([]float64, []float64) {
	var xs, ys []float64
	for i := range s.Values {
		if s.Missing[i] {
			continue
		}
		switch x.Kind {
		case table.KindNumeric:
			if x.Missing[i] {
				continue
			}
			xs = append(xs, x.Nums[i])
		default:
			xs = append(xs, float64(i))
		}
		ys = append(ys, s.Values[i])
	}
	return xs, ys
}

func timePoints(x chartspec.Axis, s chartspec.Series) ([]time.Time, []float64) {
	var xs []time.Time
	var ys []float64
	for i := range s.Values {
		if s.Missing[i] || x.Missing[i] {
			continue
		}
		xs = append(xs, x.Times[i])
		ys = append(ys, s.Values[i])
	}
	return xs, ys
}

// blankChart returns a plain background image used before a chart is
// available or when rendering fails.
func blankChart(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, bg)
		}
	}
	return img
}
