package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"gameoflife/src/board"
	"gameoflife/src/universe"
)

//Duration reads both "150ms" strings and nanosecond numbers from JSON
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return errors.Wrapf(err, "[Duration] invalid value %q", s)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "[Duration] invalid value %s", data)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

//Config holds the configuration for the game
type Config struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	ViewportWidth  int      `json:"viewport_width"`
	ViewportHeight int      `json:"viewport_height"`
	CellSize       int      `json:"cell_size"`
	LiveCells      int      `json:"live_cells"`
	Interval       Duration `json:"interval"`
	MaxSteps       int      `json:"max_steps"`
	Seed           int64    `json:"seed"`
	Edge           string   `json:"edge"`
	HistorySize    int      `json:"history_size"`
	Template       string   `json:"template"` //settled instead of the random seeding when set
	Interactive    bool     `json:"interactive"`
	PrintField     bool     `json:"print_field"`
}

//Default returns the reference setup: 1920x1080 viewport of 24px cells with 400 starting cells
func Default() Config {
	return Config{
		ViewportWidth:  universe.DefViewportWidth,
		ViewportHeight: universe.DefViewportHeight,
		CellSize:       universe.DefCellSize,
		LiveCells:      universe.DefLiveCount,
		Interval:       Duration(universe.DefSimulationInterval),
		MaxSteps:       universe.DefMaxSteps,
		Edge:           board.EdgeReference.String(),
		HistorySize:    universe.DefHistorySize,
	}
}

//Load loads configuration from JSON file on top of the defaults
func Load(filename string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

//Dimensions returns the explicit width and height, a zero one is derived from the viewport
func (c Config) Dimensions() (width int, height int, err error) {
	width, height = c.Width, c.Height
	if width != 0 && height != 0 {
		return width, height, nil
	}
	vw, vh, err := universe.DimensionsFromViewport(c.ViewportWidth, c.ViewportHeight, c.CellSize)
	if err != nil {
		return 0, 0, err
	}
	if width == 0 {
		width = vw
	}
	if height == 0 {
		height = vh
	}
	return width, height, nil
}

//Validate checks the configuration without building the universe
func (c Config) Validate() error {
	_, err := c.UniverseOptions()
	return err
}

//UniverseOptions converts the configuration to the universe options
func (c Config) UniverseOptions() (*universe.Options, error) {
	w, h, err := c.Dimensions()
	if err != nil {
		return nil, errors.Wrap(err, "[UniverseOptions] dimensions")
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(board.ErrInvalidDimensions, "[UniverseOptions] width %d, height %d", w, h)
	}
	edge, err := board.ParseEdge(c.Edge)
	if err != nil {
		return nil, errors.Wrap(err, "[UniverseOptions] edge")
	}

	o := universe.DefaultOptions()
	o.Width = w
	o.Height = h
	o.LiveCount = c.LiveCells
	o.Interval = time.Duration(c.Interval)
	o.MaxSteps = c.MaxSteps
	o.Seed = c.Seed
	o.Edge = edge
	o.HistorySize = c.HistorySize
	if err = o.Validate(); err != nil {
		return nil, errors.Wrap(err, "[UniverseOptions]")
	}
	return &o, nil
}
