// Package scenario embeds reference constructions with the statements a
// discovery from their focus is known to report. The CLI replays them
// and the engine tests use them as fixtures.
package scenario

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/katalvlaran/geodiscover/construction"
)

// ErrUnknownScenario is returned for names with no embedded script.
var ErrUnknownScenario = errors.New("scenario: unknown scenario")

//go:embed scripts/*.yaml
var scripts embed.FS

// Names returns the embedded scenario names in lexical order.
func Names() []string {
	entries, err := scripts.ReadDir("scripts")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(out)

	return out
}

// Load decodes the named script.
func Load(name string) (*construction.Script, error) {
	data, err := scripts.ReadFile("scripts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("Load %q: %w", name, ErrUnknownScenario)
	}
	sc, err := construction.ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("Load %q: %w", name, err)
	}

	return sc, nil
}

// Build loads the named script and replays it onto a fresh graph.
func Build(name string, opts ...construction.GraphOption) (*construction.Graph, *construction.Script, error) {
	sc, err := Load(name)
	if err != nil {
		return nil, nil, err
	}
	g := construction.NewGraph(opts...)
	if err = sc.Apply(g); err != nil {
		return nil, nil, fmt.Errorf("Build %q: %w", name, err)
	}

	return g, sc, nil
}

// Missing returns the expected statements of sc that text does not contain.
// Expectations are substrings so that a direction class may carry a
// perpendicular tail.
func Missing(sc *construction.Script, text string) []string {
	var out []string
	for _, want := range sc.Expect {
		if !strings.Contains(text, want) {
			out = append(out, want)
		}
	}

	return out
}
