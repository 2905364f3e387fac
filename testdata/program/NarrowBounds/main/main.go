package main

import "fmt"

// Ref only refers to T, so T needs no clone capability.
//
//clonegen:derive
type Ref[T any] struct {
	Ptr  *T
	Name string
}

type plain struct{ n int }

func main() {
	v := plain{1}
	r := Ref[plain]{Ptr: &v, Name: "r"}

	c := CloneRef(r)
	fmt.Println(c.Ptr == &v, c.Name)

	var dst Ref[plain]
	CloneFromRef(&dst, &r)
	fmt.Println(dst.Ptr.n, dst.Name)
}
