package universe

import (
	"math/rand"
	"sync"
	"time"

	"gameoflife/src/board"
)

//Simulation drives one board through its generations.
//Every command is executed by the control loop goroutine,
//so the board is never touched by two goroutines at once.
//Implements Universe interface
type Simulation struct {
	options Options
	rng     *rand.Rand
	board   struct {
		*board.Board
		sync.Mutex
	}
	state struct {
		Status
		sync.Mutex
	}
	history   []string
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
}

//New creates the Simulation and starts its control loop
//stateCh is optional, when set every status change is written to it
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	opts := DefaultOptions()
	if o != nil {
		opts = *o
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b, err := board.New(opts.Width, opts.Height, board.WithEdge(opts.Edge))
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	advanced := make(map[string]interface{}, len(opts.Advanced)+3)
	for k, v := range opts.Advanced {
		advanced[k] = v
	}
	advanced["Edge"] = opts.Edge.String()
	advanced["Seed"] = seed
	advanced["Starting cells"] = opts.LiveCount
	opts.Advanced = advanced

	u := &Simulation{
		options:   opts,
		rng:       rand.New(rand.NewSource(seed)),
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	u.board.Board = b
	for _, t := range Builtin() {
		u.templates[t.Name] = t
	}
	go u.mainLoop()
	return u, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *Simulation) AddTemplate(tmpl Template) {
	u.command(func() {
		u.templates[tmpl.Name] = tmpl
	})
}

//Settle settles the universe with data
//vc - array of x,y coordinates, the coordinates outside the board are skipped
func (u *Simulation) Settle(vc [][]int) {
	u.command(func() {
		u.settle(vc)
		u.refreshView()
	})
}

//SettleTemplate populates the universe with the seeding template
func (u *Simulation) SettleTemplate(name string) {
	u.command(func() {
		tmpl, ok := u.templates[name]
		if !ok {
			return
		}
		u.settle(tmpl.Coordinates)
		u.refreshView()
	})
}

//Reseed clears the universe and populates it with LiveCount random cells
//does nothing while the simulation is running
func (u *Simulation) Reseed() {
	u.command(func() {
		if m := u.mode(); m != RunningStateManual && m != RunningStateFinished {
			return
		}
		u.clear()
		u.board.Lock()
		u.board.Seed(u.options.LiveCount, u.rng)
		u.board.Unlock()
		u.updateLiveCells()
		u.refreshView()
	})
}

//InverseCell inverses the cell state at point x, y
func (u *Simulation) InverseCell(x int, y int) {
	u.command(func() {
		u.board.Lock()
		err := u.board.Toggle(x, y)
		u.board.Unlock()
		if err != nil {
			return
		}
		u.history = u.history[:0]
		u.updateLiveCells()
		u.refreshView()
	})
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *Simulation) RegisterViewer(v Viewer) {
	v.Register(u)
	u.command(func() {
		u.views = append(u.views, v)
	})
}

//StateCh returns the channel with the universe's status updates
func (u *Simulation) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *Simulation) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *Simulation) Options() Options {
	return u.options
}

//Area returns the copy of the current generation
func (u *Simulation) Area() board.Area {
	u.board.Lock()
	defer u.board.Unlock()
	return u.board.Snapshot()
}

//Run starts the universe simulation, returns immediately
func (u *Simulation) Run() {
	u.command(u.run)
}

//Stop stops the universe simulation, returns immediately
func (u *Simulation) Stop() {
	u.command(u.stop)
}

//Step do one simulation step
//the Status struct will be written to the stateCh on start and on finish
func (u *Simulation) Step() {
	u.command(u.step)
}

//Clear clears the universe (kill all cells and reset all counters)
//the Status struct will be written to the stateCh on finish
func (u *Simulation) Clear() {
	u.command(u.clear)
}

//Close stops the main loop, the commands sent after Close are dropped
func (u *Simulation) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
}

//command hands cmd to the control loop
//returns false when the loop is closed and cmd will never run
func (u *Simulation) command(cmd func()) bool {
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.closeCh:
		return false
	}
}

//tryCommand hands cmd to the control loop only when the loop is idle
func (u *Simulation) tryCommand(cmd func()) bool {
	select {
	case u.controlCh <- cmd:
		return true
	default:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *Simulation) mainLoop() {
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//settle places the alive cells at vc positions
func (u *Simulation) settle(vc [][]int) {
	u.board.Lock()
	for _, v := range vc {
		if len(v) < 2 {
			continue
		}
		_ = u.board.Set(v[0], v[1], board.Alive)
	}
	u.board.Unlock()
	u.history = u.history[:0]
	u.updateLiveCells()
}

func (u *Simulation) mode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

func (u *Simulation) updateLiveCells() {
	u.board.Lock()
	live := u.board.LiveCells()
	u.board.Unlock()
	u.state.Lock()
	u.state.LiveCells = live
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *Simulation) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
}

func (u *Simulation) publish(st Status) {
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *Simulation) run() {
	if u.mode() == RunningStateRun {
		return
	}
	u.state.Lock()
	u.state.Reason = ""
	u.state.Unlock()
	u.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan struct{}, 1)
		for tick := 0; ; tick++ {
			mode := u.mode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > u.options.MaxSkippedTicks {
				u.command(func() {
					if u.mode() == RunningStateRun {
						u.finish(ReasonOverrun)
					}
				})
				break
			}
			switch {
			case u.options.Interval == 0:
				//no pace to keep, the next tick waits for the step
				if !u.command(func() {
					u.tick()
					done <- struct{}{}
				}) {
					return
				}
				<-done
			case tick == 0:
				if !u.command(u.tick) {
					return
				}
			default:
				//skip the tick if the universe is still in the calculation mode
				if mode == RunningStateStep || !u.tryCommand(u.tick) {
					skipped++
				} else {
					skipped = 0
				}
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}
	}()
}

//tick is the scheduled step of the running universe, dropped once the run was stopped or finished
func (u *Simulation) tick() {
	if u.mode() == RunningStateRun {
		u.step()
	}
}

//stop stops the universe running cycle
func (u *Simulation) stop() {
	if u.mode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//finish stops the simulation for good
//the views are refreshed before the status is published, so the final output is complete once stateCh reports it
func (u *Simulation) finish(reason string) {
	u.state.Lock()
	u.state.Reason = reason
	u.state.RunningMode = RunningStateFinished
	st := u.state.Status
	u.state.Unlock()
	u.refreshView()
	u.publish(st)
}

//step does the new one generation for entire universe
func (u *Simulation) step() {
	rm := u.mode()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	u.switchRunningState(RunningStateStep)

	u.board.Lock()
	before := u.board.Fingerprint()
	start := time.Now()
	u.board.Advance()
	elapsed := time.Since(start)
	live, changed, generation := u.board.LiveCells(), u.board.Changed(), u.board.Generation()
	after := u.board.Fingerprint()
	u.board.Unlock()

	reason := ""
	switch {
	case live == 0:
		reason = ReasonExtinct
	case !changed:
		reason = ReasonStillLife
	case u.repeats(before, after):
		reason = ReasonCycle
	case u.options.MaxSteps != 0 && generation >= u.options.MaxSteps:
		reason = ReasonMaxSteps
	}

	u.state.Lock()
	u.state.IterationNum = generation
	u.state.LiveCells = live
	u.state.IterationTime = elapsed
	//simple moving average for population
	if u.state.AveragePopulation == 0 {
		u.state.AveragePopulation = float64(live)
	} else {
		u.state.AveragePopulation = u.state.AveragePopulation*0.9 + float64(live)*0.1
	}
	u.state.Unlock()

	if reason != "" {
		u.finish(reason)
		return
	}
	u.switchRunningState(rm)
	u.refreshView()
}

//repeats records before in the history and reports whether after was seen within it
func (u *Simulation) repeats(before, after string) bool {
	if u.options.HistorySize == 0 {
		return false
	}
	u.history = append(u.history, before)
	if len(u.history) > u.options.HistorySize {
		u.history = u.history[len(u.history)-u.options.HistorySize:]
	}
	for _, h := range u.history {
		if h == after {
			return true
		}
	}
	return false
}

//clear clears the universe data, reset all counters
func (u *Simulation) clear() {
	u.board.Lock()
	u.board.Clear()
	u.board.Unlock()
	u.history = u.history[:0]

	u.state.Lock()
	u.state.Status = Status{}
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *Simulation) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}
