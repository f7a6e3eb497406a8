package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rpggio/tacboard/internal/domain/tac"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToChart is returned for an empty tally. Callers skip the chart.
var ErrNothingToChart = errors.New("nothing to chart")

// palette follows the matplotlib "Paired" colormap.
var palette = []string{
	"a6cee3", "1f78b4", "b2df8a", "33a02c", "fb9a99", "e31a1c",
	"fdbf6f", "ff7f00", "cab2d6", "6a3d9a", "ffff99", "b15928",
}

// ChartSize is the square edge of the rendered pie, in pixels.
const ChartSize = 320

// PieSVG draws slices as an SVG pie chart labelled "<status> <pct>% (<count>)".
func PieSVG(w io.Writer, slices []tac.Slice) error {
	if len(slices) == 0 {
		return ErrNothingToChart
	}
	values := make([]chart.Value, 0, len(slices))
	for i, s := range slices {
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s %s", s.Status, s.Label),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(palette[i%len(palette)]),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
				FontSize:    8,
			},
		})
	}

	pie := chart.PieChart{
		Width:  ChartSize,
		Height: ChartSize,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
