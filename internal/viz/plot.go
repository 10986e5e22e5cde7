package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ddpnode/internal/action"
)

// StateLabels names the state coordinates of the built-in models.
func StateLabels(model string, nx int) []string {
	var known []string
	switch model {
	case "pendulum":
		known = []string{"theta (angle)", "omega (angular velocity)"}
	case "cartpole":
		known = []string{"cart position", "pole angle", "cart velocity", "pole angular velocity"}
	}
	labels := make([]string, nx)
	for i := range labels {
		if i < len(known) {
			labels[i] = known[i]
		} else {
			labels[i] = fmt.Sprintf("x%d", i)
		}
	}
	return labels
}

func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return Subtle.Render("(no data)")
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Column extracts coordinate i of every row; short rows give NaN.
func Column(rows [][]float64, i int) []float64 {
	out := make([]float64, len(rows))
	for k, row := range rows {
		if i < len(row) {
			out[k] = row[i]
		} else {
			out[k] = math.NaN()
		}
	}
	return out
}

// PlotTrajectory charts up to maxPlots state coordinates against time.
func PlotTrajectory(model string, states [][]float64, maxPlots int) []string {
	if len(states) == 0 {
		return nil
	}
	nx := min(len(states[0]), maxPlots)
	labels := StateLabels(model, nx)

	graphs := make([]string, 0, nx)
	for i := 0; i < nx; i++ {
		graphs = append(graphs, PlotSeries(Column(states, i), labels[i], 80, 10))
	}
	return graphs
}

// ConvergenceSeries is log10 of the residual norm per iteration. Zero
// residuals are floored at 1e-300.
func ConvergenceSeries(its []action.Iteration) []float64 {
	out := make([]float64, len(its))
	for i, it := range its {
		out[i] = math.Log10(math.Max(it.ResidualNorm, 1e-300))
	}
	return out
}

func PlotConvergence(its []action.Iteration) string {
	return PlotSeries(ConvergenceSeries(its), "log10 residual norm per iteration", 60, 10)
}
