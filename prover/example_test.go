package prover_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/prover"
)

// ExampleProver_Verify proves the midline theorem.
func ExampleProver_Verify() {
	g := construction.NewGraph()
	for _, d := range []construction.Definition{
		construction.Free("A", -4, 0),
		construction.Free("B", -1, 0),
		construction.Free("C", -2, 3),
		construction.Def("D", construction.CmdMidpoint, "B", "C"),
		construction.Def("E", construction.CmdMidpoint, "A", "C"),
	} {
		if _, err := g.Add(d); err != nil {
			panic(err)
		}
	}
	cs, err := algebra.Build(context.Background(), g.Snapshot(), cas.DefaultLimits())
	if err != nil {
		panic(err)
	}

	p := prover.New()
	for _, c := range []candidate.Candidate{
		{Kind: candidate.Parallel, Points: []string{"A", "B", "D", "E"}},
		{Kind: candidate.Parallel, Points: []string{"A", "C", "D", "E"}},
	} {
		vr := p.Verify(context.Background(), c, cs)
		fmt.Printf("%s: %s (%s)\n", c, vr.Verdict, vr.Method)
	}
	// Output:
	// AB ∥ DE: holds (symbolic)
	// AC ∥ DE: does-not-hold (numeric)
}
