package boolpoly

import "testing"

// External variable identifiers used across these tests. Values are
// arbitrary; only their distinctness matters.
const (
	extS0 = iota
	extS1
	extA
	extB
	extCin
	extG0
	extG1
	extG2
)

func installUnsigned(extIDs []int, names []string) *Engine {
	e := NewEngine(Empty())
	p := e.GetUnsignedPoly(extIDs, names)
	e.AddFromGenerates(p)
	return e
}

func polyEqual(t *testing.T, e *Engine, want *Polynomial) {
	t.Helper()
	if !e.Poly.Equal(want) {
		t.Fatalf("got %s, want %s", e.Poly.String(e.VarNames[:], " + "), want.String(e.VarNames[:], " + "))
	}
}

// checkOccurrencesConsistent asserts invariant I3: every monomial registered
// in some slot's occurrence set is actually present in Poly with that slot
// set in its variable product. A monomial that cancelled out of Poly (e.g.
// two gate-rewrite terms combining to a zero coefficient) must not leave a
// stale entry behind.
func checkOccurrencesConsistent(t *testing.T, e *Engine) {
	t.Helper()
	for slot, occ := range e.VarOccurrences {
		for vars, m := range occ {
			if !vars.Has(slot) {
				t.Fatalf("VarOccurrences[%d] contains %v, whose variable product does not include slot %d", slot, m, slot)
			}
			c, ok := e.Poly.Get(vars)
			if !ok {
				t.Fatalf("VarOccurrences[%d] has a stale entry for variable product %v: not present in Poly", slot, vars)
			}
			if c != m.Coefficient {
				t.Fatalf("VarOccurrences[%d] entry for %v has coefficient %d, but Poly has %d", slot, vars, m.Coefficient, c)
			}
		}
	}
}

// S4: half-adder elimination. p = 2*S1 + S0; AndReplace(S1,A,B) then
// XorReplace(S0,A,B) should leave A + B.
func TestEngineHalfAdderElimination(t *testing.T) {
	e := installUnsigned([]int{extS0, extS1}, []string{"S0", "S1"})

	e.AndReplace(extS1, extA, "A", extB, "B")
	e.XorReplace(extS0, extA, "A", extB, "B")

	aSlot, bSlot := e.ReverseMapping[extA], e.ReverseMapping[extB]
	want := NewPolynomial(NewMonomial(1, []int{aSlot}), NewMonomial(1, []int{bSlot}))
	polyEqual(t, e, want)
	checkOccurrencesConsistent(t, e)
}

// S5: full-adder elimination. p = 2*S1 + S0; a chain of Or/And/Xor
// substitutions should leave A + B + Cin.
func TestEngineFullAdderElimination(t *testing.T) {
	e := installUnsigned([]int{extS0, extS1}, []string{"S0", "S1"})

	e.OrReplace(extS1, extG0, "G0", extG1, "G1")
	e.AndReplace(extG1, extCin, "Cin", extG2, "G2")
	e.XorReplace(extS0, extCin, "Cin", extG2, "G2")
	e.AndReplace(extG0, extA, "A", extB, "B")
	e.XorReplace(extG2, extA, "A", extB, "B")

	aSlot, bSlot, cinSlot := e.ReverseMapping[extA], e.ReverseMapping[extB], e.ReverseMapping[extCin]
	want := NewPolynomial(
		NewMonomial(1, []int{aSlot}),
		NewMonomial(1, []int{bSlot}),
		NewMonomial(1, []int{cinSlot}),
	)
	polyEqual(t, e, want)
	checkOccurrencesConsistent(t, e)
}

// S6: continuing S5's result (A + B + Cin), substituting Cin=1, A=1, B=0
// should leave the constant 2.
func TestEngineConstantSubstitution(t *testing.T) {
	e := installUnsigned([]int{extS0, extS1}, []string{"S0", "S1"})
	e.OrReplace(extS1, extG0, "G0", extG1, "G1")
	e.AndReplace(extG1, extCin, "Cin", extG2, "G2")
	e.XorReplace(extS0, extCin, "Cin", extG2, "G2")
	e.AndReplace(extG0, extA, "A", extB, "B")
	e.XorReplace(extG2, extA, "A", extB, "B")

	e.Const1Replace(extCin)
	e.Const1Replace(extA)
	e.Const0Replace(extB)

	want := NewPolynomial(NewMonomial(2, nil))
	polyEqual(t, e, want)
	if e.Poly.Len() != 1 {
		t.Fatalf("expected a single constant term, got %d", e.Poly.Len())
	}
	checkOccurrencesConsistent(t, e)
}

// S7: freeing a slot makes it the next one NextFreeVar hands out.
func TestEngineFreeSlotReuse(t *testing.T) {
	e := NewEngine(Empty())
	ids := []int{100, 101, 102, 103}
	names := []string{"v0", "v1", "v2", "v3"}
	_ = e.GetUnsignedPoly(ids, names)

	slot1 := e.ReverseMapping[101]
	e.FreeVar(slot1)

	next, ok := e.NextFreeVar()
	if !ok || next != slot1 {
		t.Fatalf("expected NextFreeVar to return the freed slot %d, got %d, %v", slot1, next, ok)
	}

	e2 := NewEngine(Empty())
	_ = e2.GetUnsignedPoly(ids, names)
	slot := e2.ReverseMapping[101]
	e2.FreeVar(slot)
	_ = e2.GetUnsignedPoly([]int{999}, []string{"v4"})
	if got := e2.ReverseMapping[999]; got != slot {
		t.Fatalf("expected the freshly allocated variable to reuse slot %d, got %d", slot, got)
	}
}

func TestEngineOutputSlotPanicsOnUnknownVariable(t *testing.T) {
	e := NewEngine(Empty())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for rewriting an unknown external variable")
		}
	}()
	e.Const1Replace(12345)
}

func TestEngineAllocatePanicsWhenSlotsExhausted(t *testing.T) {
	e := NewEngine(Empty())
	// Bind one variable per call: a single 128-bit unsigned polynomial would
	// overflow its int64 coefficients long before the slots ran out.
	for i := 0; i < MaxVars; i++ {
		_ = e.GetUnsignedPoly([]int{i}, []string{"v"})
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when no free slot remains")
		}
	}()
	e.GetUnsignedPoly([]int{MaxVars}, []string{"overflow"})
}

func TestEngineGetTwosComplementPoly(t *testing.T) {
	e := NewEngine(Empty())
	p := e.GetTwosComplementPoly([]int{extS0, extS1}, []string{"S0", "S1"})

	s0, s1 := e.ReverseMapping[extS0], e.ReverseMapping[extS1]
	want := NewPolynomial(NewMonomial(1, []int{s0}), NewMonomial(-2, []int{s1}))
	if !p.Equal(want) {
		t.Fatalf("got %s, want %s", p.String(e.VarNames[:], " + "), want.String(e.VarNames[:], " + "))
	}
}

func TestEngineNotReplace(t *testing.T) {
	e := installUnsigned([]int{extS0}, []string{"S0"})
	e.NotReplace(extS0, extA, "A")

	aSlot := e.ReverseMapping[extA]
	want := NewPolynomial(NewMonomial(1, nil), NewMonomial(-1, []int{aSlot}))
	polyEqual(t, e, want)
}

func TestEngineFreeVarClearsInvariants(t *testing.T) {
	e := installUnsigned([]int{extS0}, []string{"S0"})
	slot := e.ReverseMapping[extS0]
	e.Const0Replace(extS0)

	if !e.FreeVarSlots[slot] {
		t.Fatalf("expected slot %d to be free after Const0Replace drops its only occurrence", slot)
	}
	if e.VarNames[slot] != "" {
		t.Fatalf("expected freed slot's name to be cleared, got %q", e.VarNames[slot])
	}
	if _, ok := e.ReverseMapping[extS0]; ok {
		t.Fatalf("expected reverse mapping entry to be removed")
	}
	if len(e.VarOccurrences[slot]) != 0 {
		t.Fatalf("expected occurrence set to be empty")
	}
	if e.Poly.Len() != 0 {
		t.Fatalf("expected the working polynomial to be empty, got %d terms", e.Poly.Len())
	}
}
