package construction_test

import (
	"fmt"

	"github.com/katalvlaran/geodiscover/construction"
)

// ExampleGraph builds a midpoint and inspects its inputs.
func ExampleGraph() {
	g := construction.NewGraph(construction.WithID("demo"))
	_, _ = g.Add(construction.Free("A", -4, 0))
	_, _ = g.Add(construction.Free("B", -1, 0))
	_, _ = g.Add(construction.Free("C", -2, 3))

	d, _ := g.Add(construction.Def("", construction.CmdMidpoint, "B", "C"))
	deps, _ := g.DependenciesOf(d)
	o, _ := g.Object(d)

	fmt.Println(d)
	fmt.Println(deps)
	fmt.Println(o.Def)
	// Output:
	// D
	// [B C]
	// D = Midpoint(B, C)
}
