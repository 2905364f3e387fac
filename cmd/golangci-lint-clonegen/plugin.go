// golangcilintclonegen package provides a plugin for golangci-lint to
// integrate the Clonegen analyzer. To build a custom golangci-lint binary with
// this plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// The resulting binary reports the types marked with //clonegen:derive which
// cannot be derived.
package golangcilintclonegen

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/clonegen/pkg/clonegenanalysis"
)

func init() {
	register.Plugin("clonegen", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return ClonegenLinter{}, nil
}

type ClonegenLinter struct{}

func (ClonegenLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{clonegenanalysis.Analyzer}, nil
}

// GetLoadMode needs type information to find declared methods.
func (ClonegenLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
