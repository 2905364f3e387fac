package testdata

//clonegen:derive
type Marker struct{} // want `cannot derive for a zero-field type`

//clonegen:derive
type Shape interface{ isShape() } // want `cannot derive for a tagged-union type`

//clonegen:derive
type ID int // want `cannot derive for ID; want struct type`

//clonegen:derive
type Alias = struct{ X int } // want `cannot derive for alias Alias`

type (
	//clonegen:derive
	Grouped struct{} // want `cannot derive for a zero-field type`

	NotMarked struct{}
)
