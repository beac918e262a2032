package algebra

import "github.com/katalvlaran/geodiscover/cas"

// evec is a symbolic plane vector used to write hypothesis equations.
type evec struct{ x, y *cas.Expr }

func pointVar(id string) evec { return evec{cas.Var("x_" + id), cas.Var("y_" + id)} }

func (u evec) add(v evec) evec { return evec{cas.Add(u.x, v.x), cas.Add(u.y, v.y)} }

func (u evec) sub(v evec) evec { return evec{cas.Sub(u.x, v.x), cas.Sub(u.y, v.y)} }

func (u evec) scale(k *cas.Expr) evec { return evec{cas.Mul(k, u.x), cas.Mul(k, u.y)} }

func (u evec) dot(v evec) *cas.Expr { return cas.Add(cas.Mul(u.x, v.x), cas.Mul(u.y, v.y)) }

func (u evec) cross(v evec) *cas.Expr { return cas.Sub(cas.Mul(u.x, v.y), cas.Mul(u.y, v.x)) }

func (u evec) perp() evec { return evec{cas.Neg(u.y), u.x} }

func (u evec) norm2() *cas.Expr { return u.dot(u) }
