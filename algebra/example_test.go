package algebra_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
)

// ExampleBuild prints the hypotheses of a midpoint construction.
func ExampleBuild() {
	g := construction.NewGraph()
	_, _ = g.Add(construction.Free("A", 0, 0))
	_, _ = g.Add(construction.Free("B", 1, 0))
	_, _ = g.Add(construction.Free("C", 0, 1))
	_, _ = g.Add(construction.Def("M", construction.CmdMidpoint, "B", "C"))

	cs, _ := algebra.Build(context.Background(), g.Snapshot(), cas.DefaultLimits())
	for _, eq := range cs.Equations() {
		if eq.Object == "M" {
			fmt.Println(eq)
		}
	}
	x, y, _ := cs.Solved("M")
	fmt.Println(cs.Field().Format(x), "|", cs.Field().Format(y))
	// Output:
	// 2*x_M - (x_B + x_C) = 0
	// 2*y_M - (y_B + y_C) = 0
	// 1/2*x_C + 1/2 | 1/2*y_C
}
