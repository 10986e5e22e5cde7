package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/config"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/experiment"
	"github.com/san-kum/ddpnode/internal/logging"
	"github.com/san-kum/ddpnode/internal/numdiff"
	"github.com/san-kum/ddpnode/internal/sim"
	"github.com/san-kum/ddpnode/internal/storage"
	"github.com/san-kum/ddpnode/internal/trace"
	"github.com/san-kum/ddpnode/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	integrator string
	controller string
	dt         float64
	steps      int
	seed       int64
	nq         int
	nu         int
	driftFree  bool
	x0         []float64
	u0         []float64
	kp         float64
	ki         float64
	kd         float64
	target     float64
	// quasistatic
	maxIter   int
	tolerance float64
	damping   float64
	traceDB   bool
	pngOut    string
	// check
	checkTol float64
	// bench
	benchIters int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ddpnode",
		Short:         "action model workbench: evaluate, differentiate and roll out DDP nodes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ddpnode", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: info, debug or trace")

	calcCmd := &cobra.Command{
		Use:   "calc [model]",
		Short: "evaluate next state, cost and derivatives at one point",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalc,
	}
	addModelFlags(calcCmd)
	addPointFlags(calcCmd)

	quasiCmd := &cobra.Command{
		Use:   "quasistatic [model]",
		Short: "find the control that keeps a state at rest",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuasiStatic,
	}
	addModelFlags(quasiCmd)
	addPointFlags(quasiCmd)
	quasiCmd.Flags().IntVar(&maxIter, "max-iter", action.DefaultMaxIter, "maximum Gauss-Newton iterations")
	quasiCmd.Flags().Float64Var(&tolerance, "tol", action.DefaultTolerance, "residual tolerance")
	quasiCmd.Flags().Float64Var(&damping, "damping", action.DefaultDamping, "step scale in (0, 1]")
	quasiCmd.Flags().BoolVar(&traceDB, "trace", false, "record iterations in <data>/trace.db")
	quasiCmd.Flags().StringVar(&pngOut, "png", "", "save a convergence plot to this file")

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "compare analytic derivatives with finite differences",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	addModelFlags(checkCmd)
	addPointFlags(checkCmd)
	checkCmd.Flags().Float64Var(&checkTol, "tol", numdiff.DefaultTolerance, "maximum absolute error")

	rolloutCmd := &cobra.Command{
		Use:   "rollout [model]",
		Short: "roll a model forward under a controller and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runRollout,
	}
	addModelFlags(rolloutCmd)
	rolloutCmd.Flags().Float64SliceVar(&x0, "x0", nil, "initial state")
	rolloutCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of nodes")
	rolloutCmd.Flags().StringVar(&controller, "controller", "none", "controller")
	rolloutCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	rolloutCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	rolloutCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	rolloutCmd.Flags().Float64Var(&target, "target", 0.0, "pid target")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export run trajectory to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&pngOut, "out", "", "output file (default <run_id>.png)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	tracesCmd := &cobra.Command{
		Use:   "traces [session_id]",
		Short: "list recorded quasi-static searches, or plot one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showTraces,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [model]",
		Short: "step a quasi-static search interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplore,
	}
	addModelFlags(exploreCmd)
	addPointFlags(exploreCmd)

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models, integrators and controllers",
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			fmt.Printf("%s %v\n", viz.MetricLabel.Render("models:     "), reg.ListModels())
			fmt.Printf("%s %v\n", viz.MetricLabel.Render("integrators:"), reg.ListIntegrators())
			fmt.Printf("%s %v\n", viz.MetricLabel.Render("controllers:"), reg.ListControllers())
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.Models()
			if len(args) == 1 {
				models = args
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark calc, calcdiff and quasistatic",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	addModelFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchIters, "iters", 10000, "evaluations per measurement")

	rootCmd.AddCommand(calcCmd, quasiCmd, checkCmd, rolloutCmd, listCmd, plotCmd, exportPNGCmd, exportJSONCmd,
		tracesCmd, exploreCmd, modelsCmd, presetsCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, viz.StatusFail.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator for differential models")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (lqr, difflqr)")
	cmd.Flags().IntVar(&nq, "nq", config.DefaultNQ, "configuration dimension (lqr, difflqr)")
	cmd.Flags().IntVar(&nu, "nu", config.DefaultNU, "control dimension (lqr, difflqr)")
	cmd.Flags().BoolVar(&driftFree, "drift-free", false, "zero drift term (lqr, difflqr)")
}

func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&x0, "x", nil, "state (default: model start state)")
	cmd.Flags().Float64SliceVar(&u0, "u", nil, "control (default: neutral control)")
}

func newLogger() (logr.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return logr.Discard(), err
	}
	return logging.New(os.Stderr, level), nil
}

// loadConfig layers defaults, the config file, the preset and finally the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("nq") {
		cfg.LQR.NQ = nq
	}
	if flags.Changed("nu") {
		cfg.LQR.NU = nu
	}
	if flags.Changed("drift-free") {
		cfg.LQR.DriftFree = driftFree
	}
	if flags.Changed("x0") || flags.Changed("x") {
		cfg.InitState = x0
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if flags.Changed("max-iter") {
		cfg.QuasiStatic.MaxIter = maxIter
	}
	if flags.Changed("tol") && cmd.Name() == "quasistatic" {
		cfg.QuasiStatic.Tolerance = tolerance
	}
	if flags.Changed("damping") {
		cfg.QuasiStatic.Damping = damping
	}
	return cfg, cfg.Validate()
}

// point builds the model and the (x, u) pair the single-node commands
// evaluate at.
func point(cmd *cobra.Command, model string) (*config.Config, action.Model, *mat.VecDense, *mat.VecDense, error) {
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	m, err := experiment.NewRegistry().BuildModel(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	x := dynamo.VecFrom(cfg.GetInitState())
	u := dynamo.Clone(m.NeutralControl())
	if len(u0) > 0 {
		u = dynamo.VecFrom(u0)
	}
	if x.Len() != m.State().Nx() {
		return nil, nil, nil, nil, &action.DimensionError{Op: model, Arg: "x", Got: x.Len(), Want: m.State().Nx()}
	}
	if u.Len() != m.NU() {
		return nil, nil, nil, nil, &action.DimensionError{Op: model, Arg: "u", Got: u.Len(), Want: m.NU()}
	}
	return cfg, m, x, u, nil
}

func printVec(name string, v mat.Vector) {
	fmt.Printf("%s %v\n", viz.MetricLabel.Render(fmt.Sprintf("%-6s", name)), dynamo.Slice(v))
}

func printMat(name string, a mat.Matrix) {
	r, c := a.Dims()
	fmt.Println(viz.MetricLabel.Render(fmt.Sprintf("%s (%d×%d)", name, r, c)))
	if r == 0 || c == 0 {
		return
	}
	fmt.Printf("%v\n", mat.Formatted(a, mat.Prefix(""), mat.Squeeze()))
}

func runCalc(cmd *cobra.Command, args []string) error {
	_, m, x, u, err := point(cmd, args[0])
	if err != nil {
		return err
	}

	data := m.CreateData()
	if err := m.Calc(data, x, u); err != nil {
		return err
	}
	if err := m.CalcDiff(data, x, u); err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(args[0]))
	fmt.Println(viz.Separator(40))
	printVec("x", x)
	printVec("u", u)
	printVec("xnext", data.Xnext)
	fmt.Println(viz.Metric("cost", data.Cost))
	printVec("r", data.R)
	fmt.Println()
	printMat("Fx", data.Fx)
	printMat("Fu", data.Fu)
	printVec("Lx", data.Lx)
	printVec("Lu", data.Lu)
	printMat("Lxx", data.Lxx)
	printMat("Lxu", data.Lxu)
	printMat("Luu", data.Luu)
	return nil
}

func runQuasiStatic(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	cfg, m, x, u, err := point(cmd, args[0])
	if err != nil {
		return err
	}

	var its []action.Iteration
	opts := append(cfg.QuasiStaticOptions(),
		action.WithLogger(log.WithName("quasistatic")),
	)

	var tr *trace.Trace
	if traceDB {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		rec := trace.NewRecorder(filepath.Join(dataDir, "trace.db"))
		if err := rec.Init(cmd.Context()); err != nil {
			return err
		}
		defer rec.Close()
		tr, err = rec.Begin(cmd.Context(), args[0])
		if err != nil {
			return err
		}
	}
	opts = append(opts, action.WithObserver(func(it action.Iteration) {
		its = append(its, it)
		if tr != nil {
			tr.Observe(it)
		}
	}))

	start := time.Now()
	res, err := action.QuasiStatic(m, m.CreateData(), u, x, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if tr != nil {
		if err := tr.Finish(res); err != nil {
			return err
		}
	}

	fmt.Println(viz.Title.Render("quasi-static " + args[0]))
	fmt.Println(viz.Separator(40))
	printVec("x", x)
	printVec("u", u)
	fmt.Println(viz.Metric("residual", res.ResidualNorm))
	fmt.Println(viz.Metric("iterations", float64(res.Iterations)))
	fmt.Printf("%s %v\n", viz.MetricLabel.Render(fmt.Sprintf("%-16s", "elapsed")), elapsed)
	status := "converged"
	if err := res.Err(); err != nil {
		status = err.Error()
	}
	fmt.Println(viz.Status(res.Converged, status, status))
	if m.HasControlLimits() {
		fmt.Println(viz.KeyHint.Render("control limits are not enforced by the search"))
	}
	if tr != nil {
		fmt.Printf("trace id: %s\n", tr.ID())
	}

	if len(its) > 1 {
		fmt.Println()
		fmt.Println(viz.PlotConvergence(its))
	}
	if pngOut != "" && len(its) > 0 {
		if err := viz.SaveConvergencePNG(pngOut, its); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", pngOut)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, m, x, u, err := point(cmd, args[0])
	if err != nil {
		return err
	}

	report, err := numdiff.Check(m, x, u, checkTol)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("derivative check " + args[0]))
	fmt.Println(viz.Separator(40))
	fmt.Println(viz.Metric("Fx", report.Fx))
	fmt.Println(viz.Metric("Fu", report.Fu))
	fmt.Println(viz.Metric("Lx", report.Lx))
	fmt.Println(viz.Metric("Lu", report.Lu))
	fmt.Println(viz.Status(report.Passed(), "within tolerance",
		fmt.Sprintf("max error %.3e exceeds %.3e", report.Max(), report.Tolerance)))
	if !report.Passed() {
		return fmt.Errorf("derivative check failed")
	}
	return nil
}

func runRollout(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	exp.SetLogger(log.WithName("rollout"))

	fmt.Printf("rolling out %s (%d nodes)...\n", cfg.Model, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(runInfo(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Println(viz.StatusWarn.Render("stopped: " + e.Error()))
	}
	fmt.Println("\nmetrics:")
	for _, name := range []string{"cost", "control_effort", "residual", "stability"} {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s\n", viz.Metric(name, val))
		}
	}
	return nil
}

func runInfo(cfg *config.Config) storage.RunInfo {
	info := storage.RunInfo{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Seed:       cfg.Seed,
	}
	if cfg.Model == "lqr" {
		info.Integrator = ""
	}
	return info
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSTEPS\tDT\tINTEG\tCTRL\tCOST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%s\t%.6g\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.TotalCost,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.States) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(traj.States))

	for _, graph := range viz.PlotTrajectory(meta.Model, traj.States, 6) {
		fmt.Println(graph)
		fmt.Println()
	}
	if len(traj.Costs) > 1 {
		fmt.Println(viz.PlotSeries(traj.Costs, "node cost", 80, 8))
	}
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := pngOut
	if out == "" {
		out = runID + ".png"
	}
	if err := viz.SaveTrajectoryPNG(out, meta.Model, traj.Times, traj.States); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", out)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		States:     traj.States,
		Controls:   traj.Controls,
		Costs:      traj.Costs,
		Times:      traj.Times,
		TotalCost:  meta.TotalCost,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
	}
	return storage.ExportJSON(os.Stdout, meta.RunInfo, result)
}

func showTraces(cmd *cobra.Command, args []string) error {
	path := filepath.Join(dataDir, "trace.db")
	if _, err := os.Stat(path); err != nil {
		fmt.Println("no traces found")
		return nil
	}

	rec := trace.NewRecorder(path)
	if err := rec.Init(cmd.Context()); err != nil {
		return err
	}
	defer rec.Close()

	if len(args) == 1 {
		its, err := rec.Iterations(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITER\tRESIDUAL\tSTEP\tRANK\tU")
		for _, it := range its {
			fmt.Fprintf(w, "%d\t%.3e\t%.3e\t%d\t%v\n", it.Index, it.ResidualNorm, it.StepNorm, it.Rank, it.U)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(its) > 1 {
			fmt.Println()
			fmt.Println(viz.PlotConvergence(its))
		}
		return nil
	}

	sessions, err := rec.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no traces found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tITERS\tRESIDUAL\tCONVERGED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3e\t%v\n",
			s.ID,
			s.Model,
			s.Started.Format("2006-01-02 15:04:05"),
			s.Iterations,
			s.ResidualNorm,
			s.Converged,
		)
	}
	return w.Flush()
}

func runExplore(cmd *cobra.Command, args []string) error {
	_, m, x, _, err := point(cmd, args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewExplorer(args[0], m, x), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func benchModel(cmd *cobra.Command, args []string) error {
	_, m, x, u, err := point(cmd, args[0])
	if err != nil {
		return err
	}
	if benchIters <= 0 {
		return fmt.Errorf("iters must be positive, got %d", benchIters)
	}

	data := m.CreateData()
	measure := func(fn func() error) (time.Duration, error) {
		start := time.Now()
		for i := 0; i < benchIters; i++ {
			if err := fn(); err != nil {
				return 0, err
			}
		}
		return time.Since(start) / time.Duration(benchIters), nil
	}

	nd := numdiff.New(m)
	cases := []struct {
		name string
		fn   func() error
	}{
		{"calc", func() error { return m.Calc(data, x, u) }},
		{"calcdiff", func() error { return m.CalcDiff(data, x, u) }},
		{"calcdiff (numdiff)", func() error { return nd.CalcDiff(data, x, u) }},
		{"quasistatic", func() error {
			_, err := action.QuasiStatic(m, data, dynamo.Clone(u), x)
			return err
		}},
	}

	fmt.Printf("benchmarking %s (nx=%d, nu=%d, nr=%d)\n\n", args[0], m.State().Nx(), m.NU(), m.NR())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tTIME/OP\tOPS/SEC")

	for _, c := range cases {
		per, err := measure(c.fn)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		opsPerSec := 0.0
		if per > 0 {
			opsPerSec = float64(time.Second) / float64(per)
		}
		fmt.Fprintf(w, "%s\t%v\t%.0f\n", c.name, per, opsPerSec)
	}

	return w.Flush()
}
