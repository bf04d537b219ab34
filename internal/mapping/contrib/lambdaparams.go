package contrib

import (
	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// CopyLambdaParametersDown copies parameter names from a functional
// interface's abstract method into the synthetic lambda body method
// each call site targets, offset by the lambda's captured-variable
// prefix length, per spec.md §4.11.
//
// spec.md §9's open questions note the original carries two
// implementations of this contributor (interface-driven and
// synthetic-lambda-driven) with undocumented overlap. This is the
// synthetic-lambda-driven direction: it walks from the body method
// outward to the functional interface via the lambda-closure
// attachment, rather than starting from interface implementations and
// searching for call sites that reference them.
type CopyLambdaParametersDown struct{}

func (CopyLambdaParametersDown) Name() string { return "copy-lambda-parameters-down" }

func (CopyLambdaParametersDown) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil {
		return nil
	}
	for _, m := range t.Class.Methods() {
		for _, site := range providers.LambdaSites(m) {
			if err := contributeLambdaSite(t, site, current, p, reg); err != nil {
				return err
			}
		}
	}
	return nil
}

func contributeLambdaSite(t mapping.Target, site decoder.LambdaSite, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	functional, err := p.Find(site.FunctionalMethod.Owner)
	if err != nil || functional == nil {
		return nil
	}
	abstractMethod := findMethod(functional, site.FunctionalMethod.Name, site.FunctionalMethod.Descriptor)
	if abstractMethod == nil {
		return nil
	}

	bodyOwner := site.BodyMethod.Owner
	if bodyOwner == "" {
		bodyOwner = t.ClassName
	}
	offset := len(site.CapturedLVTIndices)
	correspondences := make([]mapping.ParamCorrespondence, 0, abstractMethod.ParamCount())
	for i := 0; i < abstractMethod.ParamCount(); i++ {
		correspondences = append(correspondences, mapping.ParamCorrespondence{TargetIndex: offset + i, SourceIndex: i})
	}

	change := &mapping.CopyLambdaParameterMapping{
		TargetRef:          mapping.MemberRef(bodyOwner, site.BodyMethod.Name, site.BodyMethod.Descriptor),
		Source:             mapping.MemberRef(functional.Name(), abstractMethod.Name(), abstractMethod.RawDescriptor()),
		Correspondences:    correspondences,
		SourceMappingCount: countParamMappings(current, functional.Name(), abstractMethod.Name(), abstractMethod.RawDescriptor()),
	}
	return reg.Submit(change)
}

func findMethod(class *model.Class, name, descriptor string) *model.Method {
	for _, m := range class.Methods() {
		if m.Name() == name && m.RawDescriptor() == descriptor {
			return m
		}
	}
	return nil
}

func countParamMappings(current mapping.Set, class, member, descriptor string) int {
	count := 0
	for _, entry := range current.ParameterMappings(class) {
		if entry.Member == member && entry.Descriptor == descriptor {
			count++
		}
	}
	return count
}
