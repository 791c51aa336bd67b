package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gameoflife/src/universe"
)

//ConsoleOut prints the progress of non-interactive simulation
type ConsoleOut struct {
	u          universe.Universe
	w          io.Writer
	startTime  time.Time
	printField bool
	every      int
}

//NewConsoleOut creates the printer writing to stdout
//printField enables the final field output
func NewConsoleOut(printField bool) *ConsoleOut {
	return &ConsoleOut{w: os.Stdout, printField: printField, every: 10}
}

//SetOutput redirects the output
func (c *ConsoleOut) SetOutput(w io.Writer) {
	c.w = w
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration":     st.IterationNum,
			"Total time":         totalTime,
			"Live cells":         st.LiveCells,
			"Average population": fmt.Sprintf("%.1f", st.AveragePopulation),
			"Reason":             st.Reason,
		}
		fmt.Fprintln(c.w, "\nFinished:")
		c.printHashData(resultData)
		if c.printField {
			fmt.Fprintln(c.w, RenderField(c.u.Area(), PlainFillers, 0, 0))
		}
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%c.every == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() error {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
	c.u.Run()
	return nil
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
