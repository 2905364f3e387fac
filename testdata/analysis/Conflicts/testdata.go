package testdata

//clonegen:derive
type Dup struct{ X int } // want `Dup already has method CloneFrom at .+testdata.go:6:15`

func (d *Dup) CloneFrom(other *Dup) {}

//clonegen:derive
type Box[T any] struct{ V T } // want `CloneBox is already declared at`

func CloneBox() {}

// Promoted methods do not conflict.
//
//clonegen:derive
type Outer struct {
	Dup
	N int
}
