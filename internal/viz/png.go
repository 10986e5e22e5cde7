package viz

import (
	"fmt"

	"github.com/san-kum/ddpnode/internal/action"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 4 * vg.Inch
)

// SaveTrajectoryPNG draws every state coordinate against time. The image
// format follows the extension of path.
func SaveTrajectoryPNG(path, model string, times []float64, states [][]float64) error {
	if len(states) == 0 || len(times) != len(states) {
		return fmt.Errorf("trajectory has %d states and %d times", len(states), len(times))
	}

	p := plot.New()
	p.Title.Text = model + " rollout"
	p.X.Label.Text = "t"
	p.Y.Label.Text = "x"

	labels := StateLabels(model, len(states[0]))
	var lines []any
	for i, label := range labels {
		xys := make(plotter.XYs, len(states))
		for k := range states {
			xys[k].X = times[k]
			xys[k].Y = states[k][i]
		}
		lines = append(lines, label, xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}

	return p.Save(pngWidth, pngHeight, path)
}

// SaveConvergencePNG draws the residual norm of a quasi-static search on
// a log scale.
func SaveConvergencePNG(path string, its []action.Iteration) error {
	if len(its) == 0 {
		return fmt.Errorf("no iterations to plot")
	}

	p := plot.New()
	p.Title.Text = "quasi-static convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10 |r|"

	series := ConvergenceSeries(its)
	xys := make(plotter.XYs, len(series))
	for i, v := range series {
		xys[i].X = float64(its[i].Index)
		xys[i].Y = v
	}
	if err := plotutil.AddLinePoints(p, "residual", xys); err != nil {
		return err
	}

	return p.Save(pngWidth, pngHeight, path)
}
