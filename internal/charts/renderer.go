// Package charts renders the dashboard chart datasets as PNG images.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.opentelemetry.io/otel/attribute"

	"volcanotrends/internal/config"
	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/infrastructure"
	"volcanotrends/pkg/contracts/domain"
)

// Chart kinds, as used in URLs
const (
	KindTimeSeries = "timeseries"
	KindYearlyVEI  = "yearly-vei"
	KindGenres     = "genres"
	KindScatter    = "scatter"
)

// Kinds lists every chart kind in dashboard order
var Kinds = []string{KindTimeSeries, KindYearlyVEI, KindGenres, KindScatter}

var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrNoData       = errors.New("no chart data")
)

var (
	colorEruptions = drawing.ColorFromHex("ff6b6b")
	colorStreams   = drawing.ColorFromHex("4ecdc4")
	colorMaxVEI    = drawing.ColorFromHex("ffc107")

	genrePalette = []drawing.Color{
		drawing.ColorFromHex("ff6b6b"),
		drawing.ColorFromHex("4ecdc4"),
		drawing.ColorFromHex("45b7d1"),
		drawing.ColorFromHex("96ceb4"),
		drawing.ColorFromHex("feca57"),
		drawing.ColorFromHex("ff9ff3"),
		drawing.ColorFromHex("54a0ff"),
		drawing.ColorFromHex("5f27cd"),
	}
)

// maxXTicks bounds how many period labels the time series prints
const maxXTicks = 8

// Size is an image size in pixels
type Size struct {
	Width  int
	Height int
}

// Clamp keeps both dimensions inside the supported range
func (s Size) Clamp() Size {
	return Size{
		Width:  min(max(s.Width, config.MinChartSize), config.MaxChartSize),
		Height: min(max(s.Height, config.MinChartSize), config.MaxChartSize),
	}
}

// IsKnown reports whether kind names a chart
func IsKnown(kind string) bool {
	return slices.Contains(Kinds, kind)
}

// Renderer draws chart sets with go-chart
type Renderer struct {
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
}

// NewRenderer creates a renderer. metrics may be nil.
func NewRenderer(logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Renderer {
	return &Renderer{
		logger:  infrastructure.WithComponent(logger, "chart_renderer"),
		metrics: metrics,
	}
}

// renderFailure keeps the chart sentinels and reports anything go-chart
// returns as a render error.
func renderFailure(kind string, err error) error {
	if errors.Is(err, ErrUnknownChart) || errors.Is(err, ErrNoData) {
		return err
	}
	return apierrors.NewRenderError("render "+kind, err)
}

// Render draws one chart of set as a PNG
func (r *Renderer) Render(ctx context.Context, kind string, set domain.ChartSet, size Size) ([]byte, error) {
	ctx, span := infrastructure.StartSpan(ctx, "chart.render",
		attribute.String("chart.kind", kind),
		attribute.Int("chart.width", size.Width),
		attribute.Int("chart.height", size.Height))
	defer span.End()

	size = size.Clamp()
	start := time.Now()

	var buf bytes.Buffer
	var err error
	switch kind {
	case KindTimeSeries:
		err = renderTimeSeries(&buf, set.TimeSeries, size)
	case KindYearlyVEI:
		err = renderYearlyVEI(&buf, set.YearlyVEI, size)
	case KindGenres:
		err = renderGenres(&buf, set.Genres, size)
	case KindScatter:
		err = renderScatter(&buf, set.Scatter, size)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		err = renderFailure(kind, err)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	r.metrics.RecordChartRender(ctx, kind)
	r.logger.DebugContext(ctx, "chart rendered",
		slog.String("chart", kind),
		slog.Int("bytes", buf.Len()),
		slog.Duration("duration", time.Since(start)))

	return buf.Bytes(), nil
}

func renderTimeSeries(buf *bytes.Buffer, points []domain.TimeSeriesPoint, size Size) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	eruptions := make([]float64, len(points))
	streams := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		eruptions[i] = float64(p.Eruptions)
		streams[i] = p.StreamsBillions
	}
	// go-chart needs two x values to draw a line
	if len(points) == 1 {
		xs = append(xs, 1)
		eruptions = append(eruptions, eruptions[0])
		streams = append(streams, streams[0])
	}

	ticks := make([]chart.Tick, 0, maxXTicks+1)
	step := max(1, len(points)/maxXTicks)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: points[i].Label})
	}

	ch := chart.Chart{
		Title:      "Volcanic Eruptions vs Spotify Streams",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Week",
			Range: &chart.ContinuousRange{Min: 0, Max: xs[len(xs)-1]},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Eruptions",
			Range: paddedRange(eruptions, true),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Streams (billions)",
			Range: paddedRange(streams, false),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Volcanic Eruptions",
				XValues: xs,
				YValues: eruptions,
				Style:   chart.Style{StrokeColor: colorEruptions, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Streams (Billions)",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: streams,
				Style:   chart.Style{StrokeColor: colorStreams, StrokeWidth: 2},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, buf)
}

func renderYearlyVEI(buf *bytes.Buffer, buckets []domain.YearBucket, size Size) error {
	if len(buckets) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(buckets)*2)
	top := 0.0
	for _, b := range buckets {
		bars = append(bars,
			chart.Value{
				Label: b.Year + " avg",
				Value: b.MeanAvgVEI,
				Style: chart.Style{FillColor: colorEruptions, StrokeColor: colorEruptions},
			},
			chart.Value{
				Label: b.Year + " max",
				Value: b.MaxVEI,
				Style: chart.Style{FillColor: colorMaxVEI, StrokeColor: colorMaxVEI},
			})
		top = math.Max(top, math.Max(b.MeanAvgVEI, b.MaxVEI))
	}

	barWidth := max(8, size.Width/(len(bars)*2))
	bc := chart.BarChart{
		Title:      "Volcanic Explosivity Index by Year",
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  "VEI Level",
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, top*1.1)},
		},
		Bars: bars,
	}

	return bc.Render(chart.PNG, buf)
}

func renderGenres(buf *bytes.Buffer, genres []domain.GenreCount, size Size) error {
	values := make([]chart.Value, 0, len(genres))
	for i, g := range genres {
		if g.Count <= 0 {
			continue
		}
		color := genrePalette[i%len(genrePalette)]
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.0f%%)", g.Genre, g.Share),
			Value: float64(g.Count),
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pc := chart.PieChart{
		Title:  "Top Spotify Genres",
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return pc.Render(chart.PNG, buf)
}

func renderScatter(buf *bytes.Buffer, points []domain.ScatterPoint, size Size) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	if len(points) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}

	ch := chart.Chart{
		Title:      "Eruptions vs Streams Correlation",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Volcanic Eruptions",
			Range: paddedRange(xs, false),
		},
		YAxis: chart.YAxis{
			Name:  "Streams (Billions)",
			Range: paddedRange(ys, false),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Weekly Data",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    colorStreams.WithAlpha(180),
				},
			},
		},
	}

	return ch.Render(chart.PNG, buf)
}

// paddedRange spans values with a margin. go-chart rejects zero-width
// ranges, so flat series get a unit of room on each side.
func paddedRange(values []float64, fromZero bool) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if fromZero {
		lo = math.Min(lo, 0)
	}

	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	if fromZero && lo == 0 {
		return &chart.ContinuousRange{Min: 0, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
