package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"gameoflife/src/board"
	"gameoflife/src/config"
	"gameoflife/src/universe"
	"gameoflife/src/view"
)

//cliOptions holds the flag values, the zero or negative defaults mean "not set"
type cliOptions struct {
	configFile  string
	width       int
	height      int
	cellSize    int
	liveCells   int
	interval    time.Duration
	maxSteps    int
	seed        int64
	edge        string
	historySize int
	template    string
	interactive bool
	printField  bool
}

func main() {
	cfg := initConfig()

	uo, err := cfg.UniverseOptions()
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	if cfg.Interactive {
		if err = runInteractive(cfg, uo); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if err = runConsole(cfg, uo); err != nil {
		log.Fatalln(err)
	}
}

//populate settles the configured template or seeds the universe randomly
func populate(u universe.Universe, cfg config.Config) {
	if cfg.Template != "" {
		u.SettleTemplate(cfg.Template)
		return
	}
	u.Reseed()
}

func runInteractive(cfg config.Config, uo *universe.Options) error {
	u, err := universe.New(uo, nil)
	if err != nil {
		return err
	}
	defer u.Close()

	v, err := view.NewViewTerminal()
	if err != nil {
		return err
	}
	u.RegisterViewer(v)
	populate(u, cfg)
	return v.Start()
}

func runConsole(cfg config.Config, uo *universe.Options) error {
	stateCh := make(chan universe.Status, 10) //the buffered channel to getting the universe status
	u, err := universe.New(uo, stateCh)
	if err != nil {
		return err
	}
	defer u.Close()

	out := view.NewConsoleOut(cfg.PrintField)
	u.RegisterViewer(out)
	populate(u, cfg)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	fmt.Printf("\"The Life\" game simulation started...\n")
	startTime := time.Now()

	var eg errgroup.Group
	eg.Go(func() error {
		defer cancel()
		for {
			select {
			case st := <-stateCh:
				if st.RunningMode == universe.RunningStateFinished {
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	eg.Go(func() error {
		<-ctx.Done()
		if sigCtx.Err() != nil {
			st := u.Status()
			fmt.Printf("\nInterrupted, iteration is: %v, live cells: %v, total running time: %v\n",
				st.IterationNum, st.LiveCells, time.Since(startTime).Round(time.Millisecond))
			u.Close()
		}
		return nil
	})
	if err = out.Start(); err != nil {
		cancel()
	}
	if werr := eg.Wait(); werr != nil {
		return werr
	}
	return err
}

func initConfig() config.Config {
	cli := cliOptions{liveCells: -1, maxSteps: -1, historySize: -1}

	flaggy.SetName("gameoflife")
	flaggy.SetDescription("Conway's Game of Life simulation")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&cli.configFile, "c", "config", "JSON configuration file, the flags override its values")
	flaggy.Int(&cli.width, "x", "width", "Width of a simulation field, derived from the 1920x1080 viewport by default")
	flaggy.Int(&cli.height, "y", "height", "Height of a simulation field")
	flaggy.Int(&cli.cellSize, "p", "cellSize", "Cell size in pixels used to derive the field from the viewport")
	flaggy.Int(&cli.liveCells, "l", "liveCells", "Number of random picks for the starting population")
	flaggy.Duration(&cli.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&cli.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int64(&cli.seed, "r", "seed", "Random seed, 0 means time based")
	flaggy.String(&cli.edge, "e", "edge", "Neighbour bounds policy ["+strings.Join(board.EdgeNames(), "|")+"]")
	flaggy.Int(&cli.historySize, "H", "history", "Generations kept for the cycle detection, 0 disables it")
	flaggy.String(&cli.template, "t", "template", "Settle the template instead of random data ["+strings.Join(templateNames(), "|")+"]")
	flaggy.Bool(&cli.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&cli.printField, "f", "printField", "Print the final field in non-interactive mode")

	flaggy.Parse()

	cfg := config.Default()
	if cli.configFile != "" {
		var err error
		if cfg, err = config.Load(cli.configFile); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
	}
	cli.apply(&cfg)

	if cfg.Template != "" && !knownTemplate(cfg.Template) {
		flaggy.ShowHelpAndExit("unknown template")
	}
	return cfg
}

//apply overrides the configuration with the flags which were set
func (cli cliOptions) apply(cfg *config.Config) {
	if cli.width > 0 {
		cfg.Width = cli.width
	}
	if cli.height > 0 {
		cfg.Height = cli.height
	}
	if cli.cellSize > 0 {
		cfg.CellSize = cli.cellSize
	}
	if cli.liveCells >= 0 {
		cfg.LiveCells = cli.liveCells
	}
	if cli.interval > 0 {
		cfg.Interval = config.Duration(cli.interval)
	}
	if cli.maxSteps >= 0 {
		cfg.MaxSteps = cli.maxSteps
	}
	if cli.seed != 0 {
		cfg.Seed = cli.seed
	}
	if cli.edge != "" {
		cfg.Edge = cli.edge
	}
	if cli.historySize >= 0 {
		cfg.HistorySize = cli.historySize
	}
	if cli.template != "" {
		cfg.Template = cli.template
	}
	cfg.Interactive = cfg.Interactive || cli.interactive
	cfg.PrintField = cfg.PrintField || cli.printField
}

func templateNames() []string {
	tt := universe.Builtin()
	names := make([]string, 0, len(tt))
	for _, t := range tt {
		names = append(names, t.Name)
	}
	return names
}

func knownTemplate(name string) bool {
	for _, n := range templateNames() {
		if n == name {
			return true
		}
	}
	return false
}
