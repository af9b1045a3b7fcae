package boolpoly

import (
	"github.com/pkg/errors"
)

// An Engine owns a single working Polynomial together with the bookkeeping
// needed to perform gate substitution against it: a symbol table mapping
// caller-chosen external variable identifiers to one of 128 internal slots,
// and an occurrence index recording, for each slot, the set of monomials in
// Poly whose variable product includes that slot. Every rewrite touches
// only the occurrence set of the slot being eliminated, so its cost is
// proportional to the number of monomials referencing that variable, not to
// the size of Poly.
//
// Engine is not safe for concurrent use: it is a synchronous, exclusively
// owned mutable structure with no suspension points.
type Engine struct {
	// Poly is the working polynomial.
	Poly *Polynomial
	// VarNames holds the human-readable name of the variable bound to each
	// slot, or "" if the slot is free.
	VarNames [MaxVars]string
	// VarMapping holds the external variable identifier bound to each slot.
	// Only meaningful when the corresponding FreeVarSlots entry is false.
	VarMapping [MaxVars]int
	// ReverseMapping inverts VarMapping: external identifier -> slot.
	ReverseMapping map[int]int
	// FreeVarSlots marks which of the 128 slots are currently unused.
	FreeVarSlots [MaxVars]bool
	// VarOccurrences holds, for each slot, the set of monomials in Poly
	// whose variable product includes that slot, keyed by variable product
	// (a monomial's identity) so lookups and removals are O(1).
	VarOccurrences [MaxVars]map[VarProduct]Monomial
}

// NewEngine returns an Engine whose working polynomial is p (possibly the
// zero polynomial from Empty()). Any variable already appearing in p is
// marked as occupied in FreeVarSlots, though it is given no name or external
// mapping: callers that embed named variables into an initial polynomial
// are expected to have already bound them via GetUnsignedPoly or
// GetTwosComplementPoly.
func NewEngine(p *Polynomial) *Engine {
	e := &Engine{
		ReverseMapping: make(map[int]int),
	}
	for i := range e.FreeVarSlots {
		e.FreeVarSlots[i] = true
		e.VarOccurrences[i] = make(map[VarProduct]Monomial)
	}
	e.AddFromGenerates(p)
	return e
}

// AddFromGenerates installs p as the working polynomial and rebuilds
// VarOccurrences from scratch by scanning every monomial of p. Any slot
// used by p is marked occupied.
func (e *Engine) AddFromGenerates(p *Polynomial) {
	e.Poly = p
	for i := range e.VarOccurrences {
		e.VarOccurrences[i] = make(map[VarProduct]Monomial)
	}
	for m := range p.Terms() {
		for _, i := range m.UsedVars() {
			e.FreeVarSlots[i] = false
			e.VarOccurrences[i][m.Vars] = m
		}
	}
}

// NextFreeVar returns the lowest-indexed free slot, and false if all 128
// slots are occupied.
func (e *Engine) NextFreeVar() (slot int, ok bool) {
	for i := 0; i < MaxVars; i++ {
		if e.FreeVarSlots[i] {
			return i, true
		}
	}
	return 0, false
}

// FreeVar marks slot as free: it clears the slot's name, removes its entry
// from ReverseMapping, and clears its occurrence set, returning the
// occurrence set as it stood immediately before being cleared so the caller
// can still iterate the monomials that referenced the slot.
func (e *Engine) FreeVar(slot int) map[VarProduct]Monomial {
	extID := e.VarMapping[slot]
	delete(e.ReverseMapping, extID)
	e.VarNames[slot] = ""
	occ := e.VarOccurrences[slot]
	e.VarOccurrences[slot] = make(map[VarProduct]Monomial)
	e.FreeVarSlots[slot] = true
	return occ
}

func (e *Engine) bind(slot, extID int, name string) {
	e.FreeVarSlots[slot] = false
	e.VarNames[slot] = name
	e.VarMapping[slot] = extID
	e.ReverseMapping[extID] = slot
}

func (e *Engine) allocate(extID int, name string) int {
	slot, ok := e.NextFreeVar()
	if !ok {
		panic(errors.Errorf("boolpoly: no free variable slot available to bind external id %d (128-slot ceiling reached)", extID))
	}
	e.bind(slot, extID, name)
	return slot
}

// resolveInput returns the slot bound to extID, allocating and naming a
// fresh one on demand if extID is not yet known to the engine.
func (e *Engine) resolveInput(extID int, name string) int {
	if slot, ok := e.ReverseMapping[extID]; ok {
		return slot
	}
	return e.allocate(extID, name)
}

// outputSlot resolves the slot bound to extID, panicking if extID is not a
// variable the engine knows about: rewriting an unknown external variable is
// a programmer error, not a recoverable runtime condition.
func (e *Engine) outputSlot(extID int) int {
	slot, ok := e.ReverseMapping[extID]
	if !ok {
		panic(errors.Errorf("boolpoly: rewrite requested for unknown external variable %d", extID))
	}
	return slot
}

// GetUnsignedPoly allocates one fresh slot per entry of extIDs (in list
// order), records the name/mapping for each, and returns the unsigned
// bit-vector encoding Σᵢ 2ⁱ·xᵢ, where xᵢ is the slot allocated for
// extIDs[i] (the least-significant bit first).
func (e *Engine) GetUnsignedPoly(extIDs []int, names []string) *Polynomial {
	p := Empty()
	factor := int64(1)
	for i, id := range extIDs {
		slot := e.allocate(id, names[i])
		p.AddTerm(p, NewMonomial(factor, []int{slot}))
		factor *= 2
	}
	return p
}

// GetTwosComplementPoly is identical to GetUnsignedPoly except the last
// (highest-index, most-significant) bit contributes −2^(n−1) instead of
// +2^(n−1), yielding two's-complement signed-value semantics.
func (e *Engine) GetTwosComplementPoly(extIDs []int, names []string) *Polynomial {
	p := Empty()
	factor := int64(1)
	for i, id := range extIDs {
		if i == len(extIDs)-1 {
			factor = -factor
		}
		slot := e.allocate(id, names[i])
		p.AddTerm(p, NewMonomial(factor, []int{slot}))
		factor *= 2
	}
	return p
}

// removeMonomial deletes m from Poly and purges every slot's occurrence
// entry for m by rescanning m's full variable product, not just the slots
// touched by whatever replaces m. This is the resolution of the spec's
// const_0_replace open question: purging only the slots a replacement
// happens to touch can leave stale occurrence entries behind in slots the
// replacement doesn't mention.
func (e *Engine) removeMonomial(m Monomial) {
	e.Poly.m.Delete(m.Vars)
	for _, i := range m.Vars.UsedVars() {
		delete(e.VarOccurrences[i], m.Vars)
	}
}

// insertAndRegister adds term to Poly (combining with any existing term
// sharing its variable product) and keeps VarOccurrences in step with the
// result: if the combined term survived coefficient cancellation, the
// up-to-date monomial is registered in every slot's occurrence set for the
// slots in its variable product; if the combination cancelled a
// pre-existing term to zero, that term's occurrence entries (registered
// when it was first inserted) are purged from every one of those slots,
// exactly as removeMonomial does for an explicit deletion.
func (e *Engine) insertAndRegister(term Monomial) {
	e.Poly.AddTerm(e.Poly, term)
	c, ok := e.Poly.Get(term.Vars)
	if !ok {
		for _, i := range term.Vars.UsedVars() {
			delete(e.VarOccurrences[i], term.Vars)
		}
		return
	}
	merged := Monomial{Coefficient: c, Vars: term.Vars}
	for _, i := range term.Vars.UsedVars() {
		e.VarOccurrences[i][term.Vars] = merged
	}
}

// rewriteOccurrences snapshots and frees slot (per the uniform
// snapshot-then-free-then-rewrite order that resolves the spec's
// xor_replace open question), then applies rewrite to every monomial that
// referenced the slot.
func (e *Engine) rewriteOccurrences(extID int, rewrite func(m, mu Monomial, slot int)) {
	slot := e.outputSlot(extID)
	occ := e.FreeVar(slot)
	for _, m := range occ {
		e.removeMonomial(m)
		mu := m.DeleteVar(slot)
		rewrite(m, mu, slot)
	}
}

// Const1Replace replaces x with the constant 1 throughout Poly: every
// monomial c·x·μ becomes c·μ.
func (e *Engine) Const1Replace(x int) {
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {
		e.insertAndRegister(mu)
	})
}

// Const0Replace replaces x with the constant 0 throughout Poly: every
// monomial c·x·μ is simply dropped.
func (e *Engine) Const0Replace(x int) {
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {})
}

// NotReplace replaces x with ¬y throughout Poly, using ¬y ≡ 1 − y: every
// monomial c·x·μ becomes c·μ − c·μ·y.
func (e *Engine) NotReplace(x, y int, nameY string) {
	ySlot := e.resolveInput(y, nameY)
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {
		e.insertAndRegister(mu)
		neg, _ := mu.SetVar(ySlot).MulScalar(-1)
		e.insertAndRegister(neg)
	})
}

// AndReplace replaces x with y∧z throughout Poly, using y∧z ≡ y·z: every
// monomial c·x·μ becomes c·μ·y·z.
func (e *Engine) AndReplace(x, y int, nameY string, z int, nameZ string) {
	ySlot := e.resolveInput(y, nameY)
	zSlot := e.resolveInput(z, nameZ)
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {
		e.insertAndRegister(mu.SetVar(ySlot).SetVar(zSlot))
	})
}

// OrReplace replaces x with y∨z throughout Poly, using y∨z ≡ y + z − y·z:
// every monomial c·x·μ becomes c·μ·y + c·μ·z − c·μ·y·z.
func (e *Engine) OrReplace(x, y int, nameY string, z int, nameZ string) {
	ySlot := e.resolveInput(y, nameY)
	zSlot := e.resolveInput(z, nameZ)
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {
		e.insertAndRegister(mu.SetVar(ySlot))
		e.insertAndRegister(mu.SetVar(zSlot))
		yz, _ := mu.SetVar(ySlot).SetVar(zSlot).MulScalar(-1)
		e.insertAndRegister(yz)
	})
}

// XorReplace replaces x with y⊕z throughout Poly, using
// y⊕z ≡ y + z − 2·y·z: every monomial c·x·μ becomes
// c·μ·y + c·μ·z − 2·c·μ·y·z.
func (e *Engine) XorReplace(x, y int, nameY string, z int, nameZ string) {
	ySlot := e.resolveInput(y, nameY)
	zSlot := e.resolveInput(z, nameZ)
	e.rewriteOccurrences(x, func(m, mu Monomial, slot int) {
		e.insertAndRegister(mu.SetVar(ySlot))
		e.insertAndRegister(mu.SetVar(zSlot))
		yz, _ := mu.SetVar(ySlot).SetVar(zSlot).MulScalar(-2)
		e.insertAndRegister(yz)
	})
}
