package main

import "fmt"

type Label string

type Node struct{ ID int }

//clonegen:derive
type Item struct{ Tags []string }

// Pair has no field names. Its fields are addressed by their types.
//
//clonegen:derive
type Pair struct {
	Label
	Item
	*Node
}

func main() {
	n := &Node{ID: 7}
	p := Pair{"first", Item{Tags: []string{"x"}}, n}

	c := p.Clone()
	c.Tags[0] = "y"
	fmt.Println(p.Label, p.Tags, c.Tags, c.Node == n)

	var dst Pair
	dst.CloneFrom(&p)
	fmt.Println(dst.Label, dst.Tags, dst.ID)
}
