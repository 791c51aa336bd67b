package board

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/pkg/errors"
)

//scriptedRand replays the fixed sequence of values, modulo n
type scriptedRand struct {
	values []int
	pos    int
}

func (r *scriptedRand) Intn(n int) int {
	v := r.values[r.pos%len(r.values)]
	r.pos++
	return v % n
}

func newBoard(t *testing.T, w, h int, opts ...Option) *Board {
	t.Helper()
	b, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	return b
}

func settle(t *testing.T, b *Board, coords [][2]int) {
	t.Helper()
	for _, c := range coords {
		if err := b.Set(c[0], c[1], Alive); err != nil {
			t.Fatalf("Set(%d, %d): %v", c[0], c[1], err)
		}
	}
}

//alive returns the sorted list of alive coordinates
func alive(b *Board) [][2]int {
	res := [][2]int{}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if c, _ := b.CellAt(x, y); c == Alive {
				res = append(res, [2]int{x, y})
			}
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i][0] != res[j][0] {
			return res[i][0] < res[j][0]
		}
		return res[i][1] < res[j][1]
	})
	return res
}

func TestNew_InvalidDimensions(t *testing.T) {
	for _, d := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {5, -3}, {0, 0}} {
		b, err := New(d[0], d[1])
		if b != nil {
			t.Errorf("New(%d, %d) returned a board", d[0], d[1])
		}
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", d[0], d[1], err)
		}
	}
}

func TestNew_AllDead(t *testing.T) {
	b := newBoard(t, 7, 3)
	if b.Width() != 7 || b.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, want 7x3", b.Width(), b.Height())
	}
	if got := alive(b); len(got) != 0 {
		t.Errorf("alive cells on a new board: %v", got)
	}
	if b.Edge() != EdgeReference {
		t.Errorf("default edge = %v, want reference", b.Edge())
	}
}

func TestCellAt_Bounds(t *testing.T) {
	const w, h = 6, 4
	b := newBoard(t, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, err := b.CellAt(x, y); err != nil {
				t.Errorf("CellAt(%d, %d): %v", x, y, err)
			}
		}
	}
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {w, 0}, {0, h}, {w, h}, {-1, -1}, {100, 2}} {
		if _, err := b.CellAt(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("CellAt(%d, %d) error = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if err := b.Set(c[0], c[1], Alive); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Set(%d, %d) error = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if err := b.Toggle(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Toggle(%d, %d) error = %v, want ErrOutOfRange", c[0], c[1], err)
		}
	}
}

func TestSeed_Zero(t *testing.T) {
	b := newBoard(t, 10, 10)
	b.Seed(0, rand.New(rand.NewSource(1)))
	if got := alive(b); len(got) != 0 {
		t.Errorf("alive cells after Seed(0): %v", got)
	}
	if b.LiveCells() != 0 {
		t.Errorf("LiveCells() = %d, want 0", b.LiveCells())
	}
}

func TestSeed_Reproducible(t *testing.T) {
	const n = 40
	b1 := newBoard(t, 10, 10)
	b2 := newBoard(t, 10, 10)
	b1.Seed(n, rand.New(rand.NewSource(42)))
	b2.Seed(n, rand.New(rand.NewSource(42)))

	a1, a2 := alive(b1), alive(b2)
	if !reflect.DeepEqual(a1, a2) {
		t.Errorf("same rng sequence gave different boards:\n%v\n%v", a1, a2)
	}
	if len(a1) == 0 || len(a1) > n {
		t.Errorf("distinct alive cells = %d, want 1..%d", len(a1), n)
	}
	if b1.LiveCells() != len(a1) {
		t.Errorf("LiveCells() = %d, want %d", b1.LiveCells(), len(a1))
	}
}

func TestSeed_RepeatedPicks(t *testing.T) {
	b := newBoard(t, 10, 10)
	//every pick lands on (3, 3)
	b.Seed(5, &scriptedRand{values: []int{3}})
	want := [][2]int{{3, 3}}
	if got := alive(b); !reflect.DeepEqual(got, want) {
		t.Errorf("alive = %v, want %v", got, want)
	}
}

func TestSeed_PicksXThenY(t *testing.T) {
	b := newBoard(t, 10, 10)
	b.Seed(2, &scriptedRand{values: []int{1, 2, 7, 8}})
	want := [][2]int{{1, 2}, {7, 8}}
	if got := alive(b); !reflect.DeepEqual(got, want) {
		t.Errorf("alive = %v, want %v", got, want)
	}
}

func TestAdvance_Patterns(t *testing.T) {
	tests := []struct {
		name  string
		edge  Edge
		start [][2]int
		want  [][2]int
	}{
		{
			name:  "block is a still life",
			start: [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}},
			want:  [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}},
		},
		{
			name:  "horizontal blinker turns vertical",
			start: [][2]int{{3, 5}, {4, 5}, {5, 5}},
			want:  [][2]int{{4, 4}, {4, 5}, {4, 6}},
		},
		{
			name:  "lonely cell dies",
			start: [][2]int{{5, 5}},
			want:  [][2]int{},
		},
		{
			name:  "overcrowded centre dies",
			start: [][2]int{{4, 4}, {5, 4}, {6, 4}, {4, 5}, {5, 5}},
			want:  [][2]int{{4, 4}, {4, 5}, {5, 3}, {6, 4}, {6, 5}},
		},
		{
			name:  "low column is never a neighbour",
			start: [][2]int{{0, 4}, {0, 5}, {0, 6}},
			want:  [][2]int{},
		},
		{
			name:  "low row is never a neighbour",
			start: [][2]int{{4, 0}, {5, 0}, {6, 0}},
			want:  [][2]int{},
		},
		{
			name:  "far column is a neighbour",
			start: [][2]int{{9, 4}, {9, 5}, {9, 6}},
			want:  [][2]int{{8, 5}, {9, 5}},
		},
		{
			name:  "clip counts the low column",
			edge:  EdgeClip,
			start: [][2]int{{0, 4}, {0, 5}, {0, 6}},
			want:  [][2]int{{0, 5}, {1, 5}},
		},
		{
			name:  "clip counts the low row",
			edge:  EdgeClip,
			start: [][2]int{{4, 0}, {5, 0}, {6, 0}},
			want:  [][2]int{{5, 0}, {5, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, 10, 10, WithEdge(tt.edge))
			settle(t, b, tt.start)
			b.Advance()
			if got := alive(b); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("alive = %v, want %v", got, tt.want)
			}
			if b.LiveCells() != len(tt.want) {
				t.Errorf("LiveCells() = %d, want %d", b.LiveCells(), len(tt.want))
			}
		})
	}
}

func TestAdvance_BlinkerPeriod(t *testing.T) {
	b := newBoard(t, 10, 10)
	start := [][2]int{{3, 5}, {4, 5}, {5, 5}}
	settle(t, b, start)
	b.Advance()
	b.Advance()
	if got := alive(b); !reflect.DeepEqual(got, start) {
		t.Errorf("alive after two generations = %v, want %v", got, start)
	}
	if b.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", b.Generation())
	}
	if !b.Changed() {
		t.Error("Changed() = false for an oscillator")
	}
}

func TestAdvance_StillLifeUnchanged(t *testing.T) {
	b := newBoard(t, 10, 10)
	settle(t, b, [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}})
	b.Advance()
	if b.Changed() {
		t.Error("Changed() = true for a still life")
	}
}

func TestLiveNeighbours_LowEdge(t *testing.T) {
	ref := newBoard(t, 10, 10)
	clip := newBoard(t, 10, 10, WithEdge(EdgeClip))
	for _, b := range []*Board{ref, clip} {
		settle(t, b, [][2]int{{0, 5}, {5, 0}, {9, 5}})
	}
	tests := []struct {
		x, y      int
		ref, clip int
	}{
		{1, 5, 0, 1}, //neighbour at x = 0
		{5, 1, 0, 1}, //neighbour at y = 0
		{8, 5, 1, 1}, //neighbour at x = width-1
		{1, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := ref.liveNeighbours(tt.x, tt.y); got != tt.ref {
			t.Errorf("reference liveNeighbours(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.ref)
		}
		if got := clip.liveNeighbours(tt.x, tt.y); got != tt.clip {
			t.Errorf("clip liveNeighbours(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.clip)
		}
	}
}

func TestAdvance_Deterministic(t *testing.T) {
	var want Area
	for i := 0; i < 3; i++ {
		b := newBoard(t, 30, 20)
		b.Seed(200, rand.New(rand.NewSource(7)))
		for g := 0; g < 10; g++ {
			b.Advance()
		}
		got := b.Snapshot()
		if i == 0 {
			want = got
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d differs from the first run", i)
		}
	}
}

func TestSnapshot_Detached(t *testing.T) {
	b := newBoard(t, 5, 5)
	settle(t, b, [][2]int{{2, 2}})
	a := b.Snapshot()
	a.Entities[2][2] = Dead
	a.Entities[0][0] = Alive
	if c, _ := b.CellAt(2, 2); c != Alive {
		t.Error("snapshot write leaked into the board")
	}
	if c, _ := b.CellAt(0, 0); c != Dead {
		t.Error("snapshot write leaked into the board")
	}
	if a.Width != 5 || a.Height != 5 || len(a.Entities) != 5 || len(a.Entities[0]) != 5 {
		t.Errorf("snapshot shape = %dx%d", a.Width, a.Height)
	}
}

func TestToggleAndClear(t *testing.T) {
	b := newBoard(t, 5, 5)
	if err := b.Toggle(1, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := b.CellAt(1, 1); c != Alive || b.LiveCells() != 1 {
		t.Fatalf("after toggle: cell %v, live %d", c, b.LiveCells())
	}
	if err := b.Toggle(1, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := b.CellAt(1, 1); c != Dead || b.LiveCells() != 0 {
		t.Fatalf("after second toggle: cell %v, live %d", c, b.LiveCells())
	}

	b.Seed(10, rand.New(rand.NewSource(3)))
	b.Advance()
	b.Clear()
	if got := alive(b); len(got) != 0 {
		t.Errorf("alive after Clear: %v", got)
	}
	if b.Generation() != 0 || b.LiveCells() != 0 || b.Changed() {
		t.Errorf("counters after Clear: gen %d, live %d, changed %v", b.Generation(), b.LiveCells(), b.Changed())
	}
}

func TestFingerprint(t *testing.T) {
	b := newBoard(t, 10, 10)
	settle(t, b, [][2]int{{3, 5}, {4, 5}, {5, 5}})
	f0 := b.Fingerprint()
	b.Advance()
	f1 := b.Fingerprint()
	b.Advance()
	if f0 == f1 {
		t.Error("different generations share a fingerprint")
	}
	if f2 := b.Fingerprint(); f2 != f0 {
		t.Errorf("fingerprint after a full period = %s, want %s", f2, f0)
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		in   string
		want Edge
		err  bool
	}{
		{"", EdgeReference, false},
		{"reference", EdgeReference, false},
		{" Clip ", EdgeClip, false},
		{"wrap", EdgeReference, true},
	}
	for _, tt := range tests {
		got, err := ParseEdge(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseEdge(%q) error = %v", tt.in, err)
		}
		if tt.err && !errors.Is(err, ErrUnknownEdge) {
			t.Errorf("ParseEdge(%q) error = %v, want ErrUnknownEdge", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEdge(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkAdvance(b *testing.B) {
	for _, e := range []Edge{EdgeReference, EdgeClip} {
		b.Run(e.String(), func(b *testing.B) {
			bd, err := New(200, 200, WithEdge(e))
			if err != nil {
				b.Fatal(err)
			}
			bd.Seed(8000, rand.New(rand.NewSource(1)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				bd.Advance()
			}
		})
	}
}
