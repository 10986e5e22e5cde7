package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

const (
	nudge        = 0.1
	solveMaxIter = 100
	historyLen   = 60
)

// Explorer steps a quasi-static search interactively: the state can be
// edited and the control follows one Gauss-Newton iteration at a time.
type Explorer struct {
	name    string
	model   action.Model
	data    *action.Data
	x, u    *mat.VecDense
	r       *mat.VecDense
	damping float64
	tol     float64

	iters    int
	residual float64
	history  []float64
	err      error

	cursor int
	theme  Theme
	width  int
}

func NewExplorer(name string, m action.Model, x0 mat.Vector) *Explorer {
	e := &Explorer{
		name:    name,
		model:   m,
		data:    m.CreateData(),
		x:       dynamo.Clone(x0),
		u:       dynamo.Clone(m.NeutralControl()),
		r:       dynamo.NewVec(m.State().Ndx()),
		damping: action.DefaultDamping,
		tol:     action.DefaultTolerance,
		theme:   CurrentTheme,
		width:   80,
	}
	e.refresh()
	return e
}

func (e *Explorer) State() *mat.VecDense   { return e.x }
func (e *Explorer) Control() *mat.VecDense { return e.u }
func (e *Explorer) Residual() float64      { return e.residual }
func (e *Explorer) Iterations() int        { return e.iters }
func (e *Explorer) Err() error             { return e.err }

func (e *Explorer) Converged() bool {
	return e.err == nil && e.residual <= e.tol
}

// refresh recomputes the residual at the current state and control.
func (e *Explorer) refresh() {
	if err := e.model.Calc(e.data, e.x, e.u); err != nil {
		e.err = err
		return
	}
	e.model.State().Diff(e.x, e.data.Xnext, e.r)
	e.residual = dynamo.Norm(e.r)
	e.record(e.residual)
}

func (e *Explorer) record(v float64) {
	e.history = append(e.history, v)
	if len(e.history) > historyLen {
		e.history = e.history[len(e.history)-historyLen:]
	}
}

func (e *Explorer) search(maxIter int) {
	res, err := action.QuasiStatic(e.model, e.data, e.u, e.x,
		action.WithMaxIter(maxIter),
		action.WithDamping(e.damping),
		action.WithTolerance(e.tol),
		action.WithObserver(func(it action.Iteration) { e.iters++ }),
	)
	if err != nil {
		e.err = err
		return
	}
	e.residual = res.ResidualNorm
	e.record(res.ResidualNorm)
}

// Step runs one Gauss-Newton iteration.
func (e *Explorer) Step() { e.search(1) }

// Solve iterates until converged or out of iterations.
func (e *Explorer) Solve() { e.search(solveMaxIter) }

func (e *Explorer) Reset() {
	dynamo.CopyInto(e.u, e.model.NeutralControl())
	e.iters = 0
	e.history = e.history[:0]
	e.err = nil
	e.refresh()
}

func (e *Explorer) Nudge(delta float64) {
	if e.x.Len() == 0 {
		return
	}
	e.x.SetVec(e.cursor, e.x.AtVec(e.cursor)+delta)
	e.refresh()
}

func (e *Explorer) Init() tea.Cmd { return nil }

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width = msg.Width
	}
	return e, nil
}

func (e *Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return e, tea.Quit
	case " ", "n":
		e.Step()
	case "enter":
		e.Solve()
	case "left", "h":
		if e.cursor > 0 {
			e.cursor--
		}
	case "right", "l":
		if e.cursor < e.x.Len()-1 {
			e.cursor++
		}
	case "up", "k":
		e.Nudge(nudge)
	case "down", "j":
		e.Nudge(-nudge)
	case "+", "=":
		e.damping = min(e.damping*2, 1)
	case "-":
		e.damping = max(e.damping/2, 1.0/1024)
	case "r":
		e.Reset()
	case "t":
		e.theme = NextTheme(e.theme)
	}
	return e, nil
}

func (e *Explorer) View() string {
	var b strings.Builder

	b.WriteString(e.theme.title().Render("quasi-static explorer · "+e.name) + "\n")
	b.WriteString(Separator(min(e.width, 60)) + "\n\n")

	b.WriteString(MetricLabel.Render("x  "))
	for i := 0; i < e.x.Len(); i++ {
		cell := fmt.Sprintf("%9.4f", e.x.AtVec(i))
		if i == e.cursor {
			b.WriteString(Selected.Render("[" + cell + "]"))
		} else {
			b.WriteString(e.theme.accent().Render(" " + cell + " "))
		}
	}
	b.WriteString("\n")

	b.WriteString(MetricLabel.Render("u  "))
	for i := 0; i < e.u.Len(); i++ {
		b.WriteString(e.theme.accent().Render(fmt.Sprintf(" %9.4f ", e.u.AtVec(i))))
	}
	b.WriteString("\n\n")

	b.WriteString(Metric("residual", e.residual) + "\n")
	b.WriteString(Metric("iterations", float64(e.iters)) + "\n")
	b.WriteString(Metric("damping", e.damping) + "\n")
	b.WriteString(Sparkline(e.history, historyLen) + "\n\n")

	switch {
	case e.err != nil:
		b.WriteString(StatusFail.Render("error: "+e.err.Error()) + "\n")
	case e.Converged():
		b.WriteString(StatusOK.Render("● at rest") + "\n")
	default:
		b.WriteString(StatusWarn.Render("○ moving") + "\n")
	}

	b.WriteString("\n" + KeyHint.Render("space step · enter solve · ←→ select · ↑↓ nudge · +/- damping · r reset · t theme · q quit"))
	return Panel.Render(b.String())
}
