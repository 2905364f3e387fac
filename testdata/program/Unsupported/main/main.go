package main

//clonegen:derive
type Marker struct{}

//clonegen:derive
type Shape interface{ isShape() }

//clonegen:derive
type ID int

//clonegen:derive
type Dup struct{ X int }

func (d Dup) Clone() Dup { return d }

func main() {}
