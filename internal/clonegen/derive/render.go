package derive

import (
	"fmt"
	"io"
	"strings"
)

// Instance returns the type instantiated with its own type parameters, such as
// "Box[T]".
func (impl Impl) Instance() string {
	if !impl.Generic() {
		return impl.Name
	}
	return fmt.Sprintf("%s[%s]", impl.Name, strings.Join(impl.TypeParams, ", "))
}

// CloneFunc returns the name of the generated copy function or method.
func (impl Impl) CloneFunc() string {
	if impl.Generic() {
		return "Clone" + impl.Name
	}
	return "Clone"
}

// CloneFromFunc returns the name of the generated overwrite function or method.
func (impl Impl) CloneFromFunc() string {
	if impl.Generic() {
		return "CloneFrom" + impl.Name
	}
	return "CloneFrom"
}

// Write writes the declarations of the clone capability. A non-generic type
// gets Clone and CloneFrom methods. A generic type gets bounded functions
// instead, since methods cannot constrain the type parameters of their
// receiver.
func (impl Impl) Write(w io.Writer) error {
	inst := impl.Instance()

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	if impl.Generic() {
		printf("// %s returns an independent copy of %s.\n", impl.CloneFunc(), impl.Recv)
		printf("func %s%s(%s %s) %s {\n", impl.CloneFunc(), impl.BoundString(), impl.Recv, inst, inst)
	} else {
		printf("// Clone returns an independent copy of %s.\n", impl.Recv)
		printf("func (%s %s) Clone() %s {\n", impl.Recv, inst, inst)
	}
	printf("return %s\n}\n\n", impl.Copy)

	if impl.Generic() {
		printf("// %s overwrites %s with a copy of %s, reusing the allocations of %s.\n", impl.CloneFromFunc(), impl.Recv, impl.Other, impl.Recv)
		printf("func %s%s(%s, %s *%s) {\n", impl.CloneFromFunc(), impl.BoundString(), impl.Recv, impl.Other, inst)
	} else {
		printf("// CloneFrom overwrites %s with a copy of %s, reusing the allocations of %s.\n", impl.Recv, impl.Other, impl.Recv)
		printf("func (%s *%s) CloneFrom(%s *%s) {\n", impl.Recv, inst, impl.Other, inst)
	}
	if impl.Overwrite != "" {
		printf("%s\n", impl.Overwrite)
	}
	printf("}\n")
	return err
}
