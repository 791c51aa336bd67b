package board

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
)

//Cell is the state of one grid position
type Cell bool

const (
	Dead  Cell = false
	Alive Cell = true
)

func (c Cell) String() string {
	if c {
		return "alive"
	}
	return "dead"
}

var (
	ErrInvalidDimensions = errors.New("board dimensions must be positive")
	ErrOutOfRange        = errors.New("coordinates out of range")
)

//Rand is the source of uniform random integers used for seeding
//*math/rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
}

//Area is a detached copy of the board rows, Entities[y][x]
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
}

//Option configures the Board on construction
type Option func(b *Board)

//WithEdge selects the neighbour bounds policy
func WithEdge(e Edge) Option {
	return func(b *Board) {
		b.edge = e
	}
}

/*
	Board holds two equally sized buffers of cells.
	Advance computes the next generation into the scratch buffer and then swaps the buffers,
	so a partially computed generation is never observable.
	Board is not safe for concurrent use.
*/
type Board struct {
	width  int
	height int
	cur    []Cell
	next   []Cell
	edge   Edge

	generation int
	liveCells  int
	changed    bool
}

//New creates the board with all cells dead
func New(width, height int, opts ...Option) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "width %d, height %d", width, height)
	}
	b := &Board{
		width:  width,
		height: height,
		cur:    make([]Cell, width*height),
		next:   make([]Cell, width*height),
		edge:   EdgeReference,
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

//Edge returns the neighbour bounds policy of the board
func (b *Board) Edge() Edge {
	return b.edge
}

//Generation returns the number of Advance calls since construction or the last Clear
func (b *Board) Generation() int {
	return b.generation
}

//LiveCells returns the population of the current generation
func (b *Board) LiveCells() int {
	return b.liveCells
}

//Changed reports whether the last Advance changed any cell
func (b *Board) Changed() bool {
	return b.changed
}

//Seed marks liveCount uniformly picked cells alive.
//The picks are independent, a cell picked twice is counted once,
//so the population after seeding can be lower than liveCount.
func (b *Board) Seed(liveCount int, rng Rand) {
	for i := 0; i < liveCount; i++ {
		x := rng.Intn(b.width)
		y := rng.Intn(b.height)
		b.put(x, y, Alive)
	}
}

//CellAt returns the state of the cell at x, y
func (b *Board) CellAt(x, y int) (Cell, error) {
	if !b.inside(x, y) {
		return Dead, b.outOfRange(x, y)
	}
	return b.cur[b.index(x, y)], nil
}

//Set writes the cell state at x, y
func (b *Board) Set(x, y int, c Cell) error {
	if !b.inside(x, y) {
		return b.outOfRange(x, y)
	}
	b.put(x, y, c)
	return nil
}

//Toggle inverts the cell state at x, y
func (b *Board) Toggle(x, y int) error {
	if !b.inside(x, y) {
		return b.outOfRange(x, y)
	}
	b.put(x, y, !b.cur[b.index(x, y)])
	return nil
}

//Clear kills all cells and resets the counters
func (b *Board) Clear() {
	for i := range b.cur {
		b.cur[i] = Dead
		b.next[i] = Dead
	}
	b.generation = 0
	b.liveCells = 0
	b.changed = false
}

//Advance computes the next generation
func (b *Board) Advance() {
	live := 0
	changed := false
	for y := 0; y < b.height; y++ {
		row := y * b.width
		for x := 0; x < b.width; x++ {
			state := b.cur[row+x]
			next := nextState(state, b.liveNeighbours(x, y))
			if next {
				live++
			}
			changed = changed || next != state
			b.next[row+x] = next
		}
	}
	b.cur, b.next = b.next, b.cur
	b.generation++
	b.liveCells = live
	b.changed = changed
}

//Snapshot copies the current generation
func (b *Board) Snapshot() Area {
	a := Area{Width: b.width, Height: b.height, Entities: make([][]Cell, b.height)}
	buf := make([]Cell, len(b.cur))
	copy(buf, b.cur)
	for y := range a.Entities {
		start := y * b.width
		a.Entities[y] = buf[start : start+b.width : start+b.width]
	}
	return a
}

//Fingerprint returns the MD5 hash of the current generation
func (b *Board) Fingerprint() string {
	h := md5.New()
	buf := make([]byte, len(b.cur))
	for i, c := range b.cur {
		if c {
			buf[i] = 1
		}
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

//liveNeighbours counts the alive cells around x, y in the current generation
func (b *Board) liveNeighbours(x, y int) int {
	n := 0
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			if i == 0 && j == 0 {
				continue
			}
			nx, ny := x+i, y+j
			if !b.edge.counts(nx, b.width) || !b.edge.counts(ny, b.height) {
				continue
			}
			if b.cur[b.index(nx, ny)] {
				n++
			}
		}
	}
	return n
}

//nextState applies B3/S23
func nextState(c Cell, neighbours int) Cell {
	if c {
		return neighbours == 2 || neighbours == 3
	}
	return neighbours == 3
}

//put writes both buffers and keeps the population counter in sync
func (b *Board) put(x, y int, c Cell) {
	i := b.index(x, y)
	if b.cur[i] != c {
		if c {
			b.liveCells++
		} else {
			b.liveCells--
		}
	}
	b.cur[i] = c
	b.next[i] = c
}

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) outOfRange(x, y int) error {
	return errors.Wrapf(ErrOutOfRange, "(%d, %d) on %dx%d board", x, y, b.width, b.height)
}
