package construction

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph edits. Failed edits leave the graph unchanged.
var (
	// ErrUndefinedReference indicates a definition names an unknown id.
	ErrUndefinedReference = errors.New("construction: undefined reference")

	// ErrCyclicDefinition indicates an edit would make an object depend on itself.
	ErrCyclicDefinition = errors.New("construction: cyclic definition")

	// ErrInUse indicates a removal of a referenced object while cascading is disabled.
	ErrInUse = errors.New("construction: object in use")

	// ErrBadDefinition indicates an unknown command or mismatched arguments.
	ErrBadDefinition = errors.New("construction: bad definition")

	// ErrUnknownObject indicates a lookup of an id that does not exist.
	ErrUnknownObject = errors.New("construction: unknown object")

	// ErrNotMovable indicates a drag on an object that is not free.
	ErrNotMovable = errors.New("construction: object is not movable")
)

// Kind classifies geometric objects.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindLine
	KindSegment
	KindCircle
	KindPolygon
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindSegment:
		return "segment"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	}

	return "unknown"
}

// Linear reports whether k is a line or a segment.
func (k Kind) Linear() bool { return k == KindLine || k == KindSegment }

// Command names a construction step.
type Command string

const (
	CmdPoint                 Command = "Point"
	CmdMidpoint              Command = "Midpoint"
	CmdLine                  Command = "Line"
	CmdSegment               Command = "Segment"
	CmdPerpendicularLine     Command = "PerpendicularLine"
	CmdPerpendicularBisector Command = "PerpendicularBisector"
	CmdAngularBisector       Command = "AngularBisector"
	CmdCircle                Command = "Circle"
	CmdIntersect             Command = "Intersect"
	CmdPolygon               Command = "Polygon"
	CmdVertex                Command = "Vertex"
	CmdMirror                Command = "Mirror"
	CmdDilate                Command = "Dilate"
	CmdCenter                Command = "Center"
)

// Arg is one argument of a Definition: a reference, a number or a nested
// definition.
type Arg struct {
	Ref   string
	Num   float64
	IsNum bool
	Def   *Definition
}

// Ref returns a reference argument.
func Ref(id string) Arg { return Arg{Ref: id} }

// Num returns a numeric argument.
func Num(v float64) Arg { return Arg{Num: v, IsNum: true} }

// Nested returns a nested-definition argument.
func Nested(d Definition) Arg { return Arg{Def: &d} }

// String renders the argument in command syntax.
func (a Arg) String() string {
	switch {
	case a.Def != nil:
		return a.Def.String()
	case a.IsNum:
		return fmt.Sprintf("%g", a.Num)
	}

	return a.Ref
}

// Definition is a named command with arguments.
type Definition struct {
	// Label is the object id; empty asks the graph to pick one.
	Label string
	// Command is the construction step.
	Command Command
	// Args are the command arguments.
	Args []Arg
	// Hidden objects take part in constructions but never in discovery.
	Hidden bool
	// Outputs names the vertices a Polygon creates (third vertex onwards).
	Outputs []string
}

// Def builds a Definition; args may be strings (references), numbers or
// Definitions (nested).
func Def(label string, cmd Command, args ...any) Definition {
	d := Definition{Label: label, Command: cmd, Args: make([]Arg, 0, len(args))}
	for _, a := range args {
		switch v := a.(type) {
		case string:
			d.Args = append(d.Args, Ref(v))
		case float64:
			d.Args = append(d.Args, Num(v))
		case int:
			d.Args = append(d.Args, Num(float64(v)))
		case Definition:
			d.Args = append(d.Args, Nested(v))
		case Arg:
			d.Args = append(d.Args, v)
		default:
			// Empty Arg: rejected by validation as a bad definition.
			d.Args = append(d.Args, Arg{})
		}
	}

	return d
}

// Free builds a free point definition.
func Free(label string, x, y float64) Definition {
	return Definition{Label: label, Command: CmdPoint, Args: []Arg{Num(x), Num(y)}}
}

// String renders the definition in command syntax, e.g. "D = Midpoint(B, C)".
func (d Definition) String() string {
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	call := fmt.Sprintf("%s(%s)", d.Command, strings.Join(parts, ", "))
	if d.Label == "" {
		return call
	}

	return d.Label + " = " + call
}

// Object is a node of the construction graph. Values handed out by the
// graph are copies.
type Object struct {
	// ID is the stable label.
	ID string
	// Kind is the geometric type.
	Kind Kind
	// Def is the resolved definition: nested arguments are replaced by
	// references to hidden auxiliary objects.
	Def Definition
	// Seq is the construction order.
	Seq int
	// Hidden objects are skipped by discovery.
	Hidden bool
	// Aux marks objects created for nested arguments.
	Aux bool
	// Stamp is the graph version of the latest (re)definition.
	Stamp uint64

	// X, Y hold the position of a free point.
	X, Y float64
	// T is the path parameter of a point on an object.
	T float64
	// Index is the 1-based branch of a multi-valued intersection.
	Index int
	// IndexGiven reports whether Index was chosen explicitly.
	IndexGiven bool
	// Sides is the vertex count of a polygon; for a Vertex it is the
	// vertex position (1-based).
	Sides int
}

// IsFree reports whether o is a free point.
func (o *Object) IsFree() bool {
	return o.Def.Command == CmdPoint && len(o.Def.Args) == 2 && o.Def.Args[0].IsNum && o.Def.Args[1].IsNum
}

// OnPath reports whether o is a point constrained to a line or circle.
func (o *Object) OnPath() bool {
	return o.Def.Command == CmdPoint && len(o.Def.Args) >= 1 && !o.Def.Args[0].IsNum
}

// Multivalued reports whether o selects one of several intersection points.
func (o *Object) Multivalued() bool { return o.Def.Command == CmdIntersect && o.Index > 0 }

// Refs returns the referenced ids in argument order.
func (o *Object) Refs() []string {
	out := make([]string, 0, len(o.Def.Args))
	for _, a := range o.Def.Args {
		if !a.IsNum && a.Ref != "" {
			out = append(out, a.Ref)
		}
	}

	return out
}

// graphOptions holds Graph settings.
type graphOptions struct {
	id           string
	cascade      bool
	defaultParam float64
}

// GraphOption configures a Graph.
type GraphOption func(*graphOptions)

// WithCascade enables (default) or disables cascading removals.
func WithCascade(on bool) GraphOption {
	return func(o *graphOptions) { o.cascade = on }
}

// WithID fixes the graph identity (a random UUID by default).
func WithID(id string) GraphOption {
	if id == "" {
		panic("construction: WithID(\"\")")
	}

	return func(o *graphOptions) { o.id = id }
}

// WithDefaultParameter sets the path parameter used by Point(obj) without t.
func WithDefaultParameter(t float64) GraphOption {
	return func(o *graphOptions) { o.defaultParam = t }
}
