package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"gameoflife/src/universe"
)

const (
	viewHeader        = "header"
	viewConfiguration = "configuration"
	viewStatus        = "status"
	viewField         = "field"
	viewHelp          = "help"

	leftColumnWidth = 30
	minWindowHeight = 20
	headerHeight    = 3
	helpHeight      = 2
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal view
type ConsoleUI struct {
	u       universe.Universe
	g       *gocui.Gui
	k       []keyBindings
	fillers Fillers
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal initializes the terminal, Start runs it until quit
func NewViewTerminal() (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{fillers: ColorFillers}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "terminal init")
	}

	t.g.Mouse = true
	t.g.InputEsc = true
	t.k = t.bindings()
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

//bindings lists the keys, Esc and q quit like Ctrl+C
func (t *ConsoleUI) bindings() []keyBindings {
	return []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeyEsc, "ESC", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, viewField},
	}
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "key binding %s", kb.name)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop, returns on quit
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

//Refresh redraws the panes on the gui loop, safe to call from the universe goroutine
func (t *ConsoleUI) Refresh() {
	t.g.Update(func(g *gocui.Gui) error {
		t.draw(g)
		return nil
	})
}

//draw writes the field, configuration and status into their views, runs on the gui loop only
func (t *ConsoleUI) draw(g *gocui.Gui) {
	if v, err := g.View(viewField); err == nil {
		//the entire field is redrawing at once
		v.Clear()
		maxW, maxH := v.Size()
		_, _ = fmt.Fprint(v, RenderField(t.u.Area(), t.fillers, maxW, maxH))
	}
	if v, err := g.View(viewConfiguration); err == nil {
		v.Clear()
		_, _ = fmt.Fprint(v, strings.Join(configurationLines(t.u.Options()), "\n"))
	}
	if v, err := g.View(viewStatus); err == nil {
		v.Clear()
		_, _ = fmt.Fprint(v, strings.Join(statusLines(t.u.Status()), "\n"))
	}
}

func configurationLines(c universe.Options) []string {
	return []string{
		prop("Dimension", "%v x %v", c.Width, c.Height),
		prop("Interval", "%v", c.Interval),
		prop("Iterations", "%v steps", c.MaxSteps),
		prop("Starting cells", "%v", c.LiveCount),
		prop("Edge", "%v", c.Edge),
	}
}

func statusLines(s universe.Status) []string {
	lines := []string{
		prop("Step", "%v", s.IterationNum),
		prop("Live Cells", "%v", s.LiveCells),
		prop("Avg population", "%.1f", s.AveragePopulation),
		prop("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)),
		prop("Mode", "%v", runningStateDescr[s.RunningMode]),
	}
	if s.Reason != "" {
		lines = append(lines, prop("Reason", "%v", s.Reason))
	}
	return lines
}

func prop(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

//helpLine lists the key bindings for the bottom line
func helpLine(k []keyBindings) string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, kb := range k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(kb.name).String())
		b.WriteString(": ")
		b.WriteString(kb.descr)
	}
	return b.String()
}

type pane struct {
	name           string
	title          string
	x0, y0, x1, y1 int
}

//panes places everything below the header: configuration over status in the left column,
//the field to the right of them and the help line at the bottom
func panes(maxX, maxY int) []pane {
	bottom := maxY - helpHeight - 3
	split := headerHeight + (bottom-headerHeight)/2
	return []pane{
		{viewConfiguration, "Configuration", 0, headerHeight, leftColumnWidth, split},
		{viewStatus, "Status", 0, split + 1, leftColumnWidth, bottom},
		{viewField, "Board", leftColumnWidth + 1, headerHeight, maxX - 1, bottom},
		{viewHelp, "", -1, bottom, maxX, bottom + helpHeight},
	}
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	pp := panes(maxX, maxY)

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		for _, p := range pp {
			_ = g.DeleteView(p.name)
		}
		return nil
	}
	if _, err := t.headerLayout(g, headerHeight, "Conway's Game of Life"); err != nil {
		return err
	}

	for _, p := range pp {
		v, err := g.SetView(p.name, p.x0, p.y0, p.x1, p.y1)
		if err == nil {
			continue
		}
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		//the help line is the only frameless pane
		v.Title = p.title
		v.Frame = p.title != ""
		v.Wrap = !v.Frame
		if p.name == viewHelp {
			_, _ = fmt.Fprintln(v, helpLine(t.k))
		}
	}
	//the field is cropped to the view size, so it is redrawn on every resize too
	t.draw(g)
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (*gocui.View, error) {
	maxX, _ := g.Size()
	v, err := g.SetView(viewHeader, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return nil, err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	if maxX < len(text) {
		return nil, errors.Errorf("terminal width is too small: %v", maxX)
	}
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	return v, nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.Reseed()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.u.InverseCell(cx, cy)
	return nil
}
