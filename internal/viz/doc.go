// Package viz renders action model results in the terminal and to PNG.
//
//   - [PlotSeries], [PlotTrajectory], [PlotConvergence]: asciigraph charts
//   - [SaveTrajectoryPNG], [SaveConvergencePNG]: gonum/plot images
//   - [Explorer]: Bubble Tea app stepping a quasi-static search
//
// # Explorer Key Bindings
//
//	Space/N - One Gauss-Newton iteration
//	Enter   - Iterate until converged
//	←/→     - Select state coordinate
//	↑/↓     - Nudge selected coordinate
//	+/-     - Damping
//	R       - Reset control to neutral
//	T       - Cycle color themes
//	Q       - Quit
package viz
