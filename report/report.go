// Package report turns a session's shot log into charts and summaries.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
	"github.com/soocke/pong-tracker-go/domain/units"
)

// ErrNoShots is returned when there is nothing to chart.
var ErrNoShots = errors.New("report: no shots")

var players = []motion.Player{motion.Player1, motion.Player2}

var playerColors = map[motion.Player]color.Color{
	motion.Player1: color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	motion.Player2: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255},
}

// Summary aggregates one player's shots.
type Summary struct {
	Player motion.Player
	Count  int
	Mean   float64
	Max    float64
	Last   float64
}

// Summarize returns one Summary per player, player 1 first. Players without
// shots get a zero Summary.
func Summarize(shots []hit.ShotRecord) []Summary {
	out := make([]Summary, 0, len(players))
	for _, p := range players {
		speeds := speedsOf(shots, p)
		s := Summary{Player: p, Count: len(speeds)}
		if len(speeds) > 0 {
			s.Mean = stat.Mean(speeds, nil)
			s.Max = floats.Max(speeds)
			s.Last = speeds[len(speeds)-1]
		}
		out = append(out, s)
	}
	return out
}

func speedsOf(shots []hit.ShotRecord, p motion.Player) []float64 {
	var out []float64
	for _, s := range shots {
		if s.Player == p {
			out = append(out, s.Speed)
		}
	}
	return out
}

// Options controls chart labelling and unit conversion.
type Options struct {
	Title       string
	LengthUnit  string
	DisplayUnit string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Shot speeds"
	}
	if !units.IsValidLength(o.LengthUnit) {
		o.LengthUnit = units.Feet
	}
	if !units.IsValidDisplay(o.DisplayUnit) {
		o.DisplayUnit = units.FPS
	}
	return o
}

// points returns (seconds since first shot, display speed) per player.
func points(shots []hit.ShotRecord, o Options) map[motion.Player]plotter.XYs {
	out := make(map[motion.Player]plotter.XYs, len(players))
	if len(shots) == 0 {
		return out
	}
	start := shots[0].At
	for _, s := range shots {
		if s.At.Before(start) {
			start = s.At
		}
	}
	for _, s := range shots {
		if s.Player == motion.PlayerNone {
			continue
		}
		out[s.Player] = append(out[s.Player], plotter.XY{
			X: s.At.Sub(start).Seconds(),
			Y: units.ToDisplay(s.Speed, o.LengthUnit, o.DisplayUnit),
		})
	}
	return out
}

// WriteHTML renders an interactive per-player line chart of shot speeds.
func WriteHTML(w io.Writer, shots []hit.ShotRecord, o Options) error {
	if len(shots) == 0 {
		return ErrNoShots
	}
	o = o.withDefaults()
	series := points(shots, o)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("shots=%d", len(shots))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: fmt.Sprintf("Speed (%s)", units.Label(o.DisplayUnit)), NameLocation: "middle", NameGap: 40}),
	)
	for _, p := range players {
		pts := series[p]
		if len(pts) == 0 {
			continue
		}
		data := make([]opts.LineData, 0, len(pts))
		for _, pt := range pts {
			data = append(data, opts.LineData{Value: []interface{}{pt.X, pt.Y}})
		}
		line.AddSeries(p.String(), data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WritePNG renders the same chart as a static image. The format follows
// the file extension (png, svg, pdf).
func WritePNG(path string, shots []hit.ShotRecord, o Options) error {
	if len(shots) == 0 {
		return ErrNoShots
	}
	o = o.withDefaults()
	series := points(shots, o)

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = fmt.Sprintf("Speed (%s)", units.Label(o.DisplayUnit))
	p.Add(plotter.NewGrid())

	for _, pl := range players {
		pts := series[pl]
		if len(pts) == 0 {
			continue
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = playerColors[pl]
		line.Width = vg.Points(1)
		scatter.Color = playerColors[pl]
		p.Add(line, scatter)
		p.Legend.Add(pl.String(), line, scatter)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Export writes session-<id>.html and session-<id>.png into dir and returns
// both paths.
func Export(dir string, session uuid.UUID, shots []hit.ShotRecord, o Options) (htmlPath, pngPath string, err error) {
	if len(shots) == 0 {
		return "", "", ErrNoShots
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}
	base := filepath.Join(dir, "session-"+session.String())
	htmlPath, pngPath = base+".html", base+".png"

	f, err := os.Create(htmlPath)
	if err != nil {
		return "", "", err
	}
	if err := WriteHTML(f, shots, o); err != nil {
		f.Close()
		return "", "", err
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}
	if err := WritePNG(pngPath, shots, o); err != nil {
		return "", "", err
	}
	return htmlPath, pngPath, nil
}
