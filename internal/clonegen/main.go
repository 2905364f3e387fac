package clonegeninternal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/clonegen/internal/clonegen/parse"
)

var Version string

// Options configures [Main].
type Options struct {
	// Dir is the path of the working directory.
	Dir string

	// Env is the environment variables to use when loading packages.
	Env []string

	// Patterns are the package patterns to process.
	Patterns []string

	Config Config
}

// Main is the main entry point for Clonegen. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages. If the loading is too slow, ctx can
// cancel the operation.
//
// It returns a map of output file paths to their contents. If any error occurs,
// it returns a non-nil error.
func Main(ctx context.Context, opts Options) (map[string][]byte, error) {
	pkgs, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}

	outs := make(map[string][]byte)
	var errs error

	for _, pkg := range pkgs {
		if len(fatalErrors(pkg)) != 0 {
			err := fmt.Errorf("pkg %q has errors", pkg.Name)
			errs = errors.Join(errs, err)
			continue
		}

		cg, err := New(pkg, opts.Config)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := cg.Build(); err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		code := cg.Generate()
		if len(code) == 0 {
			Logger().Debug("nothing to derive", zap.String("pkg", pkg.PkgPath))
			continue
		}

		outDir := filepath.Dir(pkg.GoFiles[0])
		if rel, err := filepath.Rel(opts.Dir, outDir); err == nil {
			outDir = rel
		}
		out := filepath.Join(outDir, opts.Config.Output)
		outs[out] = code

		Logger().Debug("generated",
			zap.String("pkg", pkg.PkgPath),
			zap.String("out", out),
			zap.Strings("types", cg.Derived()),
		)
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs)
	}

	return outs, nil
}

// Describe generates clone code for the types in a shape-description file.
func Describe(filename string, cfg Config) ([]byte, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	desc, err := parse.ParseDescription(filename, src)
	if err != nil {
		return nil, reorderErrors(err)
	}

	cg := NewDescribed(desc, cfg)
	if err := cg.Build(); err != nil {
		return nil, reorderErrors(err)
	}

	Logger().Debug("described", zap.String("file", filename), zap.Strings("types", cg.Derived()))
	return cg.Generate(), nil
}

// DescribeOutput returns the default output path for a shape-description
// file, such as "shapes_gen.go" for "shapes.yaml".
func DescribeOutput(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_gen.go"
}

// load loads packages.
func load(ctx context.Context, opts Options) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        opts.Dir,
		Env:        opts.Env,
		BuildFlags: []string{"-tags=clonegen"},
		Tests:      opts.Config.Tests,
	}
	if opts.Config.Tags != "" {
		cfg.BuildFlags[0] += "," + opts.Config.Tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", opts.Patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		Logger().Debug("loaded", zap.String("pkg", pkg.PkgPath), zap.Int("files", len(pkg.GoFiles)))

		for _, err := range fatalErrors(pkg) {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(opts.Dir, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

// fatalErrors returns the errors of the package which stop generation. Type
// errors are tolerated: the generated code is excluded by the clonegen build
// tag, so a package calling Clone or CloneFrom does not type-check while it is
// loaded. Syntax and the defined objects are still complete.
func fatalErrors(pkg *packages.Package) []packages.Error {
	var errs []packages.Error
	for _, err := range pkg.Errors {
		if err.Kind == packages.TypeError {
			Logger().Debug("type error", zap.String("pkg", pkg.PkgPath), zap.String("err", err.Error()))
			continue
		}
		errs = append(errs, err)
	}
	return errs
}

func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			list = append(list, u.Unwrap()...)
			list[i] = nil
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	// Sort errors by message
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Error() < list[j].Error()
	})
	return errors.Join(list...)
}
