package discover_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/discover"
)

// ExampleEngine_Discover finds the midline theorem of a triangle.
func ExampleEngine_Discover() {
	g := construction.NewGraph()
	for _, d := range []construction.Definition{
		construction.Free("A", -4, 0),
		construction.Free("B", -1, 0),
		construction.Free("C", -2, 3),
		construction.Def("D", construction.CmdMidpoint, "B", "C"),
		construction.Def("E", construction.CmdMidpoint, "A", "C"),
	} {
		if _, err := g.Add(d); err != nil {
			fmt.Println(err)
			return
		}
	}

	rep, err := discover.New(g).Discover(context.Background(), "B")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(rep)
	// Output:
	// AB ∥ DE
	// BD = CD
}
