package main

import "fmt"

//clonegen:derive
type Item struct {
	Values []int
}

//clonegen:derive
type Box[T any] struct {
	Inner T
	Ref   *T
}

func main() {
	shared := &Item{Values: []int{9}}
	b := Box[Item]{Inner: Item{Values: []int{1, 2}}, Ref: shared}

	c := CloneBox(b)
	c.Inner.Values[0] = 100
	fmt.Println(b.Inner.Values, c.Inner.Values, c.Ref == shared)

	// CloneFrom of Item is used for the Inner field.
	dst := Box[Item]{Inner: Item{Values: make([]int, 0, 4)}}
	CloneFromBox(&dst, &b)
	fmt.Println(dst.Inner.Values, cap(dst.Inner.Values), dst.Ref == shared)
}
