package testdata

import (
	"time"
	tm "time"
)

//clonegen:derive
type Node struct {
	Name     string
	Children []Node
	Parent   *Node
	Seen     time.Time
	Timeout  tm.Duration
	Labels   map[string]string
}

//clonegen:derive
type Pair[A any, B comparable] struct {
	First  A
	Second map[B]A
}

// A doc comment without the directive.
type Plain struct{ X []int }

// Calls to the generated code do not block the analysis.
func snapshot(n Node) Node { return n.Clone() }

func refresh(dst, src *Node) { dst.CloneFrom(src) }
