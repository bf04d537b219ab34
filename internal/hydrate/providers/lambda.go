package providers

import (
	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/hydrate"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

var lambdaSitesToken = model.NewToken("lambda-sites")

// LambdaClosure attaches, on each method whose body contains an
// invokedynamic bootstrapped by a functional-interface metafactory, the
// list of lambda call sites it declares: the synthetic body method, the
// functional interface's abstract method, and the captured LVT
// indices, per spec.md §4.9.
type LambdaClosure struct{}

func (LambdaClosure) Name() string            { return "lambda-closure" }
func (LambdaClosure) Family() hydrate.Family   { return hydrate.FamilyMethod }
func (LambdaClosure) Produces() []hydrate.Token { return []hydrate.Token{TokenLambdaClosure} }
func (LambdaClosure) Consumes() []hydrate.Token { return nil }

func (LambdaClosure) ApplyMethod(m *model.Method) error {
	body := provider.MethodBody(m)
	if body == nil || len(body.LambdaSites) == 0 {
		return nil
	}
	m.Put(lambdaSitesToken, body.LambdaSites)
	return nil
}

func (LambdaClosure) ApplyClass(*model.Class) error             { return nil }
func (LambdaClosure) ApplyConstructor(*model.Constructor) error { return nil }
func (LambdaClosure) ApplyField(*model.Field) error             { return nil }

// LambdaSites returns the lambda call sites a containing method
// declares, or nil if it declares none.
func LambdaSites(m *model.Method) []decoder.LambdaSite {
	v, ok := m.Get(lambdaSitesToken)
	if !ok {
		return nil
	}
	return v.([]decoder.LambdaSite)
}
