package board

import (
	"strings"

	"github.com/pkg/errors"
)

//Edge is the policy deciding which neighbour coordinates are counted
type Edge int

const (
	//EdgeReference counts a neighbour only when 0 < n < size.
	//Cells on the row 0 and the column 0 are never counted as neighbours,
	//while the far edge is. This matches the reference simulation.
	EdgeReference Edge = iota
	//EdgeClip counts every neighbour inside the grid, 0 <= n < size
	EdgeClip
)

var ErrUnknownEdge = errors.New("unknown edge policy")

var edgeNames = map[Edge]string{
	EdgeReference: "reference",
	EdgeClip:      "clip",
}

func (e Edge) String() string {
	if n, ok := edgeNames[e]; ok {
		return n
	}
	return "unknown"
}

//ParseEdge converts the policy name to Edge
func ParseEdge(s string) (Edge, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EdgeReference, nil
	}
	for e, n := range edgeNames {
		if n == s {
			return e, nil
		}
	}
	return EdgeReference, errors.Wrapf(ErrUnknownEdge, "%q", s)
}

//EdgeNames lists the known policy names, the default first
func EdgeNames() []string {
	return []string{EdgeReference.String(), EdgeClip.String()}
}

func (e Edge) counts(n, size int) bool {
	if e == EdgeClip {
		return n >= 0 && n < size
	}
	return n > 0 && n < size
}
