package boolpoly

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxVars is the hard ceiling on the number of Boolean variables that may be
// live in a single Engine at once. It is the number of bits in a VarProduct.
const MaxVars = 128

// A VarProduct is a 128-bit set indicating which of the internal variable
// slots appear in a monomial. Membership is the only information recorded:
// a variable's exponent is implicitly 1, since every polynomial in this
// package is multilinear.
//
// Go has no native 128-bit integer, so the set is split across two 64-bit
// words the way the original implementation split a single u128: hi holds
// slots 64..127, lo holds slots 0..63.
type VarProduct struct {
	hi, lo uint64
}

func varBit(slot int) uint64 {
	if slot < 0 || slot >= MaxVars {
		panic(fmt.Sprintf("boolpoly: variable slot %d out of range [0, %d)", slot, MaxVars))
	}
	return 1 << uint(slot%64)
}

// Set returns x with slot added to the variable product.
func (x VarProduct) Set(slot int) VarProduct {
	mask := varBit(slot)
	if slot < 64 {
		x.lo |= mask
	} else {
		x.hi |= mask
	}
	return x
}

// Delete returns x with slot removed from the variable product.
func (x VarProduct) Delete(slot int) VarProduct {
	mask := varBit(slot)
	if slot < 64 {
		x.lo &^= mask
	} else {
		x.hi &^= mask
	}
	return x
}

// Has reports whether slot is a member of x.
func (x VarProduct) Has(slot int) bool {
	mask := varBit(slot)
	if slot < 64 {
		return x.lo&mask != 0
	}
	return x.hi&mask != 0
}

// Or returns the union of x and y (multilinear absorption: x·x = x falls out
// of this for free, since OR-ing a bit that is already set is a no-op).
func (x VarProduct) Or(y VarProduct) VarProduct {
	return VarProduct{hi: x.hi | y.hi, lo: x.lo | y.lo}
}

// IsZero reports whether the variable product is empty.
func (x VarProduct) IsZero() bool {
	return x.hi == 0 && x.lo == 0
}

// Compare gives the canonical lexicographic order on variable products, used
// both for Polynomial's backing map and for deterministic canonical
// iteration. It compares the high word first, then the low word.
func (x VarProduct) Compare(y VarProduct) int {
	if x.hi != y.hi {
		if x.hi < y.hi {
			return -1
		}
		return 1
	}
	if x.lo != y.lo {
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

// UsedVars yields the indices of the slots set in x, in ascending order.
func (x VarProduct) UsedVars() []int {
	var used []int
	for lo := x.lo; lo != 0; {
		i := bits.TrailingZeros64(lo)
		used = append(used, i)
		lo &= lo - 1
	}
	for hi := x.hi; hi != 0; {
		i := bits.TrailingZeros64(hi)
		used = append(used, 64+i)
		hi &= hi - 1
	}
	return used
}

// FreeVars returns a mask of the MaxVars slots that are *not* set in x, the
// complement of UsedVars over the full 128-slot space.
func (x VarProduct) FreeVars() [MaxVars]bool {
	var free [MaxVars]bool
	for i := 0; i < MaxVars; i++ {
		free[i] = !x.Has(i)
	}
	return free
}

// A Monomial is a term c·∏xᵢ with a nonzero integer coefficient and a subset
// of variables, each appearing to power 1.
//
// Equality and hashing (as used by Polynomial's backing map) consider only
// the variable product, never the coefficient: two monomials are "the same
// term" iff they share the same variable set.
type Monomial struct {
	Coefficient int64
	Vars        VarProduct
}

// NewMonomial builds a monomial from a coefficient and a list of variable
// slots. Duplicate slots collapse via idempotence. It panics if coefficient
// is zero: a zero-coefficient monomial is a contract violation, since
// monomials with coefficient 0 do not exist in this package's model.
func NewMonomial(coefficient int64, slots []int) Monomial {
	if coefficient == 0 {
		panic("boolpoly: NewMonomial called with a zero coefficient")
	}
	var vars VarProduct
	for _, s := range slots {
		vars = vars.Set(s)
	}
	return Monomial{Coefficient: coefficient, Vars: vars}
}

// AddScalar returns m with k added to its coefficient. The second return
// value is false when the result is zero, signalling that the caller must
// drop the term rather than keep a zero-coefficient monomial around.
func (m Monomial) AddScalar(k int64) (Monomial, bool) {
	m.Coefficient += k
	return m, m.Coefficient != 0
}

// SubScalar returns m with k subtracted from its coefficient, with the same
// absent-on-zero convention as AddScalar.
func (m Monomial) SubScalar(k int64) (Monomial, bool) {
	return m.AddScalar(-k)
}

// MulScalar returns m scaled by k, with the same absent-on-zero convention
// as AddScalar (k == 0 always yields absent).
func (m Monomial) MulScalar(k int64) (Monomial, bool) {
	m.Coefficient *= k
	return m, m.Coefficient != 0
}

// Mul returns the product of m and n: coefficients multiply, variable
// products OR together (multilinear absorption). The result is assumed
// nonzero, since both inputs are nonzero by construction; overflow is the
// caller's responsibility.
func (m Monomial) Mul(n Monomial) Monomial {
	return Monomial{
		Coefficient: m.Coefficient * n.Coefficient,
		Vars:        m.Vars.Or(n.Vars),
	}
}

// UsedVars yields the indices of the variables appearing in m.
func (m Monomial) UsedVars() []int {
	return m.Vars.UsedVars()
}

// SetVar returns m with slot added to its variable product. The coefficient
// is untouched.
func (m Monomial) SetVar(slot int) Monomial {
	m.Vars = m.Vars.Set(slot)
	return m
}

// DeleteVar returns m with slot removed from its variable product. The
// coefficient is untouched.
func (m Monomial) DeleteVar(slot int) Monomial {
	m.Vars = m.Vars.Delete(slot)
	return m
}

// String renders m as ±|c|·<name>·<name>…, using names to look up the
// display name for each slot. The leading sign is always printed explicitly.
func (m Monomial) String(names []string) string {
	var b strings.Builder
	printMonomial(&b, m.Coefficient, m.Vars, names)
	return b.String()
}

func printMonomial(b *strings.Builder, coefficient int64, vars VarProduct, names []string) {
	if coefficient < 0 {
		fmt.Fprintf(b, "-%d", -coefficient)
	} else {
		fmt.Fprintf(b, "+%d", coefficient)
	}
	for _, i := range vars.UsedVars() {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		fmt.Fprintf(b, "·%s", name)
	}
}
