package construction

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type (
	// Script is a construction stored as YAML:
	//
	//	name: midline
	//	focus: B
	//	objects:
	//	  - {label: A, cmd: Point, args: [-4, 0]}
	//	  - {label: D, cmd: Midpoint, args: [B, C]}
	//	  - {label: G, cmd: Intersect, args: [{cmd: Line, args: [A, D]}, {cmd: Line, args: [B, E]}]}
	Script struct {
		// Name is a free-form title.
		Name string `yaml:"name"`
		// Focus is the point discovery starts from.
		Focus string `yaml:"focus"`
		// Expect lists statements a discovery from Focus is known to report.
		Expect []string `yaml:"expect,omitempty"`
		// Objects are applied in order.
		Objects []Step `yaml:"objects"`
	}

	// Step is one definition of a Script.
	Step struct {
		Label   string    `yaml:"label,omitempty"`
		Command string    `yaml:"cmd"`
		Args    []ArgNode `yaml:"args"`
		Hidden  bool      `yaml:"hidden,omitempty"`
		Outputs []string  `yaml:"outputs,omitempty"`
	}

	// ArgNode is a scalar reference, a number or a nested Step.
	ArgNode struct {
		Arg
	}
)

// UnmarshalYAML decodes numbers, references and nested steps.
func (a *ArgNode) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!int" || n.Tag == "!!float" {
			v, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			a.Arg = Num(v)

			return nil
		}
		a.Arg = Ref(n.Value)

		return nil
	case yaml.MappingNode:
		var st Step
		if err := n.Decode(&st); err != nil {
			return err
		}
		a.Arg = Nested(st.Definition())

		return nil
	}

	return fmt.Errorf("line %d: argument must be a scalar or a mapping: %w", n.Line, ErrBadDefinition)
}

// MarshalYAML encodes the argument back to its scalar or mapping form.
func (a ArgNode) MarshalYAML() (any, error) {
	switch {
	case a.Def != nil:
		return stepOf(*a.Def), nil
	case a.IsNum:
		return a.Num, nil
	}

	return a.Ref, nil
}

// Definition converts the step.
func (st Step) Definition() Definition {
	d := Definition{
		Label:   st.Label,
		Command: Command(st.Command),
		Hidden:  st.Hidden,
		Outputs: st.Outputs,
		Args:    make([]Arg, len(st.Args)),
	}
	for i, a := range st.Args {
		d.Args[i] = a.Arg
	}

	return d
}

func stepOf(d Definition) Step {
	st := Step{Label: d.Label, Command: string(d.Command), Hidden: d.Hidden, Outputs: d.Outputs}
	for _, a := range d.Args {
		st.Args = append(st.Args, ArgNode{a})
	}

	return st
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("ParseScript: %w", err)
	}

	return &sc, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScript: %w", err)
	}

	return ParseScript(data)
}

// Definitions returns the steps as definitions.
func (sc *Script) Definitions() []Definition {
	out := make([]Definition, len(sc.Objects))
	for i, st := range sc.Objects {
		out[i] = st.Definition()
	}

	return out
}

// Apply adds every step to g in order and stops at the first failure.
func (sc *Script) Apply(g *Graph) error {
	for i, d := range sc.Definitions() {
		if _, err := g.Add(d); err != nil {
			return fmt.Errorf("script %q step %d: %w", sc.Name, i+1, err)
		}
	}

	return nil
}

// ScriptOf dumps the visible, non-auxiliary objects of s as a script.
// Polygon vertices are folded back into their polygon's outputs.
func ScriptOf(s *Snapshot, name, focus string) *Script {
	sc := &Script{Name: name, Focus: focus}
	idx := map[string]int{}
	for _, id := range s.bySeq {
		o := s.objects[id]
		switch {
		case o.Aux:
			continue
		case o.Def.Command == CmdVertex:
			if k, ok := idx[o.Def.Args[0].Ref]; ok {
				sc.Objects[k].Outputs = append(sc.Objects[k].Outputs, id)
			}
			continue
		}
		def := o.Def
		switch {
		case o.IsFree():
			def = Free(id, o.X, o.Y)
			def.Hidden = o.Hidden
		case o.OnPath():
			def.Args = []Arg{def.Args[0], Num(o.T)}
		case o.Multivalued() && o.IndexGiven:
			def.Args = []Arg{def.Args[0], def.Args[1], Num(float64(o.Index))}
		}
		def.Args = s.inlineAux(def.Args)
		if o.Kind == KindPolygon {
			idx[id] = len(sc.Objects)
		}
		sc.Objects = append(sc.Objects, stepOf(def))
	}

	return sc
}

// inlineAux turns references to auxiliary objects back into nested steps.
func (s *Snapshot) inlineAux(args []Arg) []Arg {
	out := make([]Arg, len(args))
	for i, a := range args {
		out[i] = a
		if a.IsNum {
			continue
		}
		if o, ok := s.objects[a.Ref]; ok && o.Aux {
			nd := o.Def
			nd.Label, nd.Hidden = "", false
			nd.Args = s.inlineAux(nd.Args)
			out[i] = Nested(nd)
		}
	}

	return out
}

// Marshal encodes the script as YAML.
func (sc *Script) Marshal() ([]byte, error) { return yaml.Marshal(sc) }
