package universe

import (
	"time"

	"github.com/pkg/errors"

	"gameoflife/src/board"
)

//Universe is the control surface of the simulation used by viewers
type Universe interface {
	Status() Status
	Options() Options
	Area() board.Area
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string)
	Settle(vc [][]int)
	Reseed()
	InverseCell(x int, y int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start() error
}

//Options represents the Universe's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	LiveCount       int        //cells picked by Reseed
	Seed            int64      //random seed, 0 means time based
	Edge            board.Edge //neighbour bounds policy
	HistorySize     int        //generations kept for cycle detection, 0 disables it
	Advanced        map[string]interface{}
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum      int
	RunningMode       RunningState
	LiveCells         int
	IterationTime     time.Duration
	AveragePopulation float64
	Reason            string //why the simulation finished
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//RunningState is the universe running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//finish reasons
const (
	ReasonMaxSteps  = "max steps"
	ReasonExtinct   = "extinct"
	ReasonStillLife = "still life"
	ReasonCycle     = "cycle"
	ReasonOverrun   = "skipped ticks"
)

//default options, the 1920x1080 viewport with 24px cells
const (
	DefViewportWidth      = 1920
	DefViewportHeight     = 1080
	DefCellSize           = 24
	DefWidth              = DefViewportWidth / DefCellSize
	DefHeight             = DefViewportHeight / DefCellSize
	DefLiveCount          = 400
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
	DefHistorySize        = 5
)

var (
	ErrInvalidViewport = errors.New("viewport and cell size must be positive")
	ErrInvalidOptions  = errors.New("invalid universe options")
)

//DefaultOptions returns a fresh copy of the default options
func DefaultOptions() Options {
	return Options{
		Width:           DefWidth,
		Height:          DefHeight,
		Interval:        DefSimulationInterval,
		MaxSteps:        DefMaxSteps,
		MaxSkippedTicks: DefMaxSkippedTicks,
		LiveCount:       DefLiveCount,
		HistorySize:     DefHistorySize,
	}
}

//DimensionsFromViewport returns how many cells of cellSize pixels fit the viewport
func DimensionsFromViewport(viewportWidth, viewportHeight, cellSize int) (width int, height int, err error) {
	if viewportWidth <= 0 || viewportHeight <= 0 || cellSize <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidViewport, "viewport %dx%d, cell %d", viewportWidth, viewportHeight, cellSize)
	}
	width, height = viewportWidth/cellSize, viewportHeight/cellSize
	if width == 0 || height == 0 {
		return 0, 0, errors.Wrapf(ErrInvalidViewport, "cell %d is larger than viewport %dx%d", cellSize, viewportWidth, viewportHeight)
	}
	return
}

//Validate checks the options which the board does not check itself
func (o Options) Validate() error {
	switch {
	case o.LiveCount < 0:
		return errors.Wrapf(ErrInvalidOptions, "live count %d", o.LiveCount)
	case o.MaxSteps < 0:
		return errors.Wrapf(ErrInvalidOptions, "max steps %d", o.MaxSteps)
	case o.Interval < 0:
		return errors.Wrapf(ErrInvalidOptions, "interval %v", o.Interval)
	case o.HistorySize < 0:
		return errors.Wrapf(ErrInvalidOptions, "history size %d", o.HistorySize)
	case o.MaxSkippedTicks < 0:
		return errors.Wrapf(ErrInvalidOptions, "max skipped ticks %d", o.MaxSkippedTicks)
	}
	return nil
}
