package main

import "fmt"

//clonegen:derive
type Leaf struct{ Data []byte }

//clonegen:derive
type Tree struct {
	Leaves  []Leaf
	ByName  map[string]Leaf
	Pair    [2]Leaf
	Grid    [][]int
	Counts  map[string]int
	Fixed   [3]int
	Parents []*Tree
}

func main() {
	t := Tree{
		Leaves: []Leaf{{Data: []byte("a")}},
		ByName: map[string]Leaf{"k": {Data: []byte("b")}},
		Pair:   [2]Leaf{{Data: []byte("c")}, {Data: []byte("d")}},
		Grid:   [][]int{{1, 2}, {3}},
		Counts: map[string]int{"n": 1},
		Fixed:  [3]int{1, 2, 3},
	}
	t.Parents = []*Tree{&t}

	c := t.Clone()
	c.Leaves[0].Data[0] = 'A'
	c.ByName["k"].Data[0] = 'B'
	c.Pair[0].Data[0] = 'C'
	c.Grid[0][0] = 100
	c.Counts["n"] = 100
	c.Fixed[0] = 100
	fmt.Println(string(t.Leaves[0].Data), string(t.ByName["k"].Data), string(t.Pair[0].Data), t.Grid[0][0], t.Counts["n"], t.Fixed[0])
	fmt.Println(string(c.Leaves[0].Data), string(c.ByName["k"].Data), string(c.Pair[0].Data), c.Grid[0][0], c.Counts["n"], c.Fixed[0])
	fmt.Println(c.Parents[0] == &t)

	// Element allocations survive an overwrite.
	dst := Tree{
		Leaves: []Leaf{{Data: make([]byte, 0, 16)}},
		Counts: map[string]int{"stale": 0},
	}
	dst.CloneFrom(&t)
	dst.CloneFrom(&t)
	fmt.Println(string(dst.Leaves[0].Data), cap(dst.Leaves[0].Data), len(dst.Counts), dst.Counts["n"])
	fmt.Println(string(dst.Pair[1].Data), dst.Grid, dst.Fixed)
}
