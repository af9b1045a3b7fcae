package boolpoly

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/jba/omap"
)

// A Polynomial is a multilinear, integer-coefficient Boolean polynomial: a
// set of monomials such that no two share a variable product and no
// coefficient is zero. A Polynomial is the sum of its monomials.
//
// The set is backed by an ordered map keyed on the canonical lexicographic
// order over variable products (VarProduct.Compare), giving combine-on-
// insert lookups and deterministic canonical iteration, the same role
// github.com/jba/omap plays for the teacher package's noncommutative
// polynomials.
type Polynomial struct {
	m *omap.MapFunc[VarProduct, int64]
}

func newBackingMap() *omap.MapFunc[VarProduct, int64] {
	return omap.NewMapFunc[VarProduct, int64](VarProduct.Compare)
}

// Empty returns the zero polynomial.
func Empty() *Polynomial {
	return &Polynomial{m: newBackingMap()}
}

// NewPolynomial returns a polynomial containing the sum of the given terms,
// combining any that share a variable product.
func NewPolynomial(terms ...Monomial) *Polynomial {
	p := Empty()
	for _, t := range terms {
		p.AddTerm(p, t)
	}
	return p
}

// Len reports the number of monomials in x.
func (x *Polynomial) Len() int {
	return x.m.Len()
}

// Terms iterates the monomials of x in canonical (lexicographic-on-variable-
// product) order.
func (x *Polynomial) Terms() iter.Seq[Monomial] {
	return func(yield func(Monomial) bool) {
		for w, c := range x.m.All() {
			if !yield(Monomial{Coefficient: c, Vars: w}) {
				return
			}
		}
	}
}

// Get looks up the coefficient of the term with the given variable product,
// reporting false if no such term is present.
func (x *Polynomial) Get(vars VarProduct) (int64, bool) {
	return x.m.Get(vars)
}

// Contains reports whether x has a term with the given variable product.
func (x *Polynomial) Contains(vars VarProduct) bool {
	_, ok := x.m.Get(vars)
	return ok
}

// Equal reports whether x and y have exactly the same terms.
func (x *Polynomial) Equal(y *Polynomial) bool {
	if x.m.Len() != y.m.Len() {
		return false
	}
	for w, c := range x.m.All() {
		yc, ok := y.m.Get(w)
		if !ok || yc != c {
			return false
		}
	}
	return true
}

// Set sets z to x and returns z.
func (z *Polynomial) Set(x *Polynomial) *Polynomial {
	if z == x {
		return z
	}
	z.m = newBackingMap()
	for w, c := range x.m.All() {
		z.m.Set(w, c)
	}
	return z
}

// addTerm merges m into z in place: the monomial with the same variable
// product as m (if any) has its coefficient summed with m's, dropping the
// entry if the sum is zero; otherwise m is inserted outright.
func (z *Polynomial) addTerm(m Monomial) {
	c, ok := z.m.Get(m.Vars)
	if ok {
		c += m.Coefficient
	} else {
		c = m.Coefficient
	}
	if c == 0 {
		z.m.Delete(m.Vars)
	} else {
		z.m.Set(m.Vars, c)
	}
}

// AddTerm sets z to x + m and returns z.
func (z *Polynomial) AddTerm(x *Polynomial, m Monomial) *Polynomial {
	z.Set(x)
	z.addTerm(m)
	return z
}

// Add sets z to x + y and returns z, folding addTerm over every term of y.
func (z *Polynomial) Add(x, y *Polynomial) *Polynomial {
	// Set z = x, while handling the case where x or y is z itself.
	if y == z {
		x, y = y, x
	}
	if z != x {
		z.Set(x)
	}
	for w, c := range y.m.All() {
		z.addTerm(Monomial{Coefficient: c, Vars: w})
	}
	return z
}

// MulScalar sets z to x scaled by k and returns z, dropping any term whose
// coefficient becomes zero (which only happens when k itself is zero, since
// x's terms are all nonzero already). Variable products are unchanged by
// scalar multiplication, so the uniqueness invariant holds automatically.
func (z *Polynomial) MulScalar(x *Polynomial, k int64) *Polynomial {
	if k == 0 {
		z.m = newBackingMap()
		return z
	}
	z.Set(x)
	for w, c := range z.m.All() {
		z.m.Set(w, c*k)
	}
	return z
}

// MulMonomial sets z to x · m and returns z. Because the product's variable
// products may collide (e.g. x·y and z·y both multiplied by x·z yield
// x·y·z), the result is rebuilt term by term through AddTerm rather than
// mutated in place.
func (z *Polynomial) MulMonomial(x *Polynomial, m Monomial) *Polynomial {
	result := Empty()
	for w, c := range x.m.All() {
		term := Monomial{Coefficient: c, Vars: w}.Mul(m)
		result.AddTerm(result, term)
	}
	return z.Set(result)
}

// Mul sets z to x · y and returns z, distributing: the product accumulates
// partial products x·mᵢ for every term mᵢ of y. z must not alias x or y.
func (z *Polynomial) Mul(x, y *Polynomial) *Polynomial {
	if z == x {
		panic("boolpoly: Polynomial.Mul called with z == x")
	}
	if z == y {
		panic("boolpoly: Polynomial.Mul called with z == y")
	}
	z.m = newBackingMap()
	for w, c := range y.m.All() {
		partial := Empty().MulMonomial(x, Monomial{Coefficient: c, Vars: w})
		z.Add(z, partial)
	}
	return z
}

// String renders x as its monomials joined by sep, in descending order of
// |coefficient| (ties broken by the canonical variable-product order so
// output is deterministic). The empty polynomial renders as "0".
func (x *Polynomial) String(names []string, sep string) string {
	if x.Len() == 0 {
		return "0"
	}

	terms := make([]Monomial, 0, x.Len())
	for m := range x.Terms() {
		terms = append(terms, m)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		ai, aj := abs64(terms[i].Coefficient), abs64(terms[j].Coefficient)
		if ai != aj {
			return ai > aj
		}
		return terms[i].Vars.Compare(terms[j].Vars) < 0
	})

	var b strings.Builder
	for i, m := range terms {
		if i > 0 {
			b.WriteString(sep)
		}
		fmt.Fprint(&b, m.String(names))
	}
	return b.String()
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
