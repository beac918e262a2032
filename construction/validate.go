package construction

import (
	"fmt"
	"math"
	"strings"
)

// signature letters: P point, L line or segment, C circle, G polygon, N number.
type shape struct {
	pattern string
	kind    Kind
}

var signatures = map[Command][]shape{
	CmdPoint:                 {{"NN", KindPoint}, {"L", KindPoint}, {"LN", KindPoint}, {"C", KindPoint}, {"CN", KindPoint}},
	CmdMidpoint:              {{"PP", KindPoint}},
	CmdLine:                  {{"PP", KindLine}, {"PL", KindLine}},
	CmdSegment:               {{"PP", KindSegment}},
	CmdPerpendicularLine:     {{"PL", KindLine}},
	CmdPerpendicularBisector: {{"PP", KindLine}},
	CmdAngularBisector:       {{"PPP", KindLine}},
	CmdCircle:                {{"PP", KindCircle}, {"PPP", KindCircle}},
	CmdIntersect: {
		{"LL", KindPoint}, {"LLN", KindPoint},
		{"LC", KindPoint}, {"CL", KindPoint}, {"CC", KindPoint},
		{"LCN", KindPoint}, {"CLN", KindPoint}, {"CCN", KindPoint},
	},
	CmdPolygon: {{"PPN", KindPolygon}},
	CmdMirror:  {{"PP", KindPoint}, {"PL", KindPoint}},
	CmdDilate:  {{"PNP", KindPoint}},
	CmdCenter:  {{"C", KindPoint}},
}

func letter(a Arg, k Kind) byte {
	switch {
	case a.IsNum:
		return 'N'
	case k == KindPoint:
		return 'P'
	case k.Linear():
		return 'L'
	case k == KindCircle:
		return 'C'
	}

	return 'G'
}

// check validates argument shapes and returns the kind of the result.
func check(cmd Command, args []Arg, kinds []Kind) (Kind, error) {
	shapes, ok := signatures[cmd]
	if !ok {
		return 0, fmt.Errorf("unknown command %q: %w", cmd, ErrBadDefinition)
	}
	var sb strings.Builder
	for i, a := range args {
		sb.WriteByte(letter(a, kinds[i]))
	}
	sig := sb.String()
	var kind Kind
	for _, s := range shapes {
		if s.pattern == sig {
			kind = s.kind
			break
		}
	}
	if kind == 0 {
		return 0, fmt.Errorf("%s does not accept (%s): %w", cmd, sig, ErrBadDefinition)
	}

	refs := uniqueRefs(args)
	nrefs := 0
	for _, a := range args {
		if !a.IsNum {
			nrefs++
		}
	}
	if len(refs) != nrefs {
		return 0, fmt.Errorf("%s needs distinct objects: %w", cmd, ErrBadDefinition)
	}

	switch cmd {
	case CmdIntersect:
		if len(args) == 3 {
			k := args[2].Num
			if k != math.Trunc(k) || k < 1 || k > 2 || (sig == "LLN" && k != 1) {
				return 0, fmt.Errorf("%s index %g out of range: %w", cmd, k, ErrBadDefinition)
			}
		}
	case CmdPolygon:
		n := args[2].Num
		if n != math.Trunc(n) || n < 3 || n > 64 {
			return 0, fmt.Errorf("%s needs 3..64 vertices, got %g: %w", cmd, n, ErrBadDefinition)
		}
	}

	return kind, nil
}
