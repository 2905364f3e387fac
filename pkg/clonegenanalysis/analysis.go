// Package clonegenanalysis reports the types which Clonegen cannot derive, as
// a go/analysis analyzer. It lets editors and linters show the errors at the
// type declarations without running the generator.
package clonegenanalysis

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/clonegen/internal/codefmt"
	clonegeninternal "github.com/sublee/clonegen/internal/clonegen"
)

// Analyzer validates the types marked with the derive directive in the
// package.
var Analyzer = &analysis.Analyzer{
	Name: "clonegen",
	Doc:  "linter for clonegen derive directives",
	Run:  run,

	// Generated code is excluded by the clonegen build tag, so calls to
	// Clone and CloneFrom are type errors until it is regenerated.
	RunDespiteErrors: true,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	cg, err := clonegeninternal.New(pkg, clonegeninternal.DefaultConfig())
	if err != nil {
		return nil, err
	}

	if err := cg.Build(); err != nil {
		// Unroll all errors and report them
		errs := []error{err}
		for len(errs) != 0 {
			err := errs[0]
			errs = errs[1:]

			if codeErr, ok := err.(*codefmt.CodeError); ok {
				pass.Report(analysis.Diagnostic{
					Pos:     codeErr.Pos(),
					End:     codeErr.End(),
					Message: codeErr.Unwrap().Error(),
				})
				continue
			}

			if u, ok := err.(interface{ Unwrap() []error }); ok {
				errs = append(errs, u.Unwrap()...)
			}
		}
	}

	return nil, nil
}
