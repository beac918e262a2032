package algebra

import (
	"fmt"

	"github.com/katalvlaran/geodiscover/cas"
)

// rotation returns cos(2π/n) and sin(2π/n) as exact tower elements.
// Only angles constructible with nested square roots of integers are
// covered.
func (b *builder) rotation(id string, n int) (c, s cas.Elem, err error) {
	f := b.f
	root := func(x cas.Elem) (cas.Elem, error) { return b.sqrt(id, x, "polygon angle") }
	quarter := f.Frac(1, 4)
	half := f.Frac(1, 2)

	switch n {
	case 4:
		return cas.Elem{}, f.One(), nil
	case 3, 6, 12:
		r3, err := root(f.Int(3))
		if err != nil {
			return c, s, err
		}
		h := f.Mul(r3, half)
		switch n {
		case 3:
			return f.Frac(-1, 2), h, nil
		case 6:
			return half, h, nil
		}

		return h, half, nil
	case 8:
		r2, err := root(f.Int(2))
		if err != nil {
			return c, s, err
		}
		h := f.Mul(r2, half)

		return h, h, nil
	case 5, 10:
		r5, err := root(f.Int(5))
		if err != nil {
			return c, s, err
		}
		two5 := f.Mul(f.Int(2), r5)
		if n == 5 {
			// cos 72° = (√5 - 1)/4, sin 72° = √(10 + 2√5)/4
			w, err := root(f.Add(f.Int(10), two5))
			if err != nil {
				return c, s, err
			}

			return f.Mul(f.Sub(r5, f.One()), quarter), f.Mul(w, quarter), nil
		}
		// cos 36° = (√5 + 1)/4, sin 36° = √(10 - 2√5)/4
		w, err := root(f.Sub(f.Int(10), two5))
		if err != nil {
			return c, s, err
		}

		return f.Mul(f.Add(r5, f.One()), quarter), f.Mul(w, quarter), nil
	}

	return c, s, fmt.Errorf("polygon with %d sides: %w", n, ErrUnsupported)
}
