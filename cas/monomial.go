// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// monomial.go - exponent vectors and the graded lexicographic order.

package cas

// monomial is an exponent vector indexed by variable; trailing zeros are
// always trimmed so equal monomials have equal encodings.
type monomial []uint16

func trimMono(m monomial) monomial {
	n := len(m)
	for n > 0 && m[n-1] == 0 {
		n--
	}

	return m[:n]
}

func (m monomial) exp(i int) int {
	if i < len(m) {
		return int(m[i])
	}

	return 0
}

func (m monomial) degree() int {
	d := 0
	for _, e := range m {
		d += int(e)
	}

	return d
}

// key encodes m as a map key, two bytes per exponent.
func (m monomial) key() string {
	b := make([]byte, 2*len(m))
	for i, e := range m {
		b[2*i] = byte(e >> 8)
		b[2*i+1] = byte(e)
	}

	return string(b)
}

func mulMono(a, b monomial) monomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(monomial, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(a.exp(i) + b.exp(i))
	}

	return trimMono(out)
}

// divMono returns a/b when b divides a.
func divMono(a, b monomial) (monomial, bool) {
	if len(b) > len(a) {
		return nil, false
	}
	out := make(monomial, len(a))
	for i := range a {
		e := a.exp(i) - b.exp(i)
		if e < 0 {
			return nil, false
		}
		out[i] = uint16(e)
	}

	return trimMono(out), true
}

// halfMono returns m/2 when every exponent is even.
func halfMono(m monomial) (monomial, bool) {
	out := make(monomial, len(m))
	for i, e := range m {
		if e%2 != 0 {
			return nil, false
		}
		out[i] = e / 2
	}

	return out, true
}

// cmpMono orders by total degree first, then lexicographically with
// variable 0 most significant. It returns -1, 0 or +1.
func cmpMono(a, b monomial) int {
	da, db := a.degree(), b.degree()
	switch {
	case da > db:
		return 1
	case da < db:
		return -1
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ea, eb := a.exp(i), b.exp(i)
		if ea != eb {
			if ea > eb {
				return 1
			}

			return -1
		}
	}

	return 0
}
