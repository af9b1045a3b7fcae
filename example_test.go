package boolpoly_test

import (
	"fmt"

	"github.com/vantiso/boolpoly"
)

// This example shows how substituting a half-adder's gate-level definition
// into its integer-weighted output polynomial recovers the arithmetic sum of
// its inputs: 2·AND(A,B) + XOR(A,B) simplifies to A + B.
func Example() {
	e := boolpoly.NewEngine(boolpoly.Empty())
	p := e.GetUnsignedPoly([]int{0, 1}, []string{"S0", "S1"})
	e.AddFromGenerates(p)

	e.AndReplace(1, 2, "A", 3, "B")
	e.XorReplace(0, 2, "A", 3, "B")

	fmt.Println(e.Poly.String(e.VarNames[:], " + "))

	// Output:
	// +1·A + +1·B
}

// This example builds the same output polynomial from a chain of full-adder
// gates, then substitutes a concrete set of constants for its inputs.
func Example_fullAdder() {
	e := boolpoly.NewEngine(boolpoly.Empty())
	const (
		s0, s1     = 0, 1
		a, b, cin  = 2, 3, 4
		g0, g1, g2 = 5, 6, 7
	)
	p := e.GetUnsignedPoly([]int{s0, s1}, []string{"S0", "S1"})
	e.AddFromGenerates(p)

	e.OrReplace(s1, g0, "G0", g1, "G1")
	e.AndReplace(g1, cin, "Cin", g2, "G2")
	e.XorReplace(s0, cin, "Cin", g2, "G2")
	e.AndReplace(g0, a, "A", b, "B")
	e.XorReplace(g2, a, "A", b, "B")
	fmt.Println("sum:", e.Poly.String(e.VarNames[:], " + "))

	e.Const1Replace(cin)
	e.Const1Replace(a)
	e.Const0Replace(b)
	fmt.Println("with Cin=1, A=1, B=0:", e.Poly.String(e.VarNames[:], " + "))

	// Output:
	// sum: +1·A + +1·Cin + +1·B
	// with Cin=1, A=1, B=0: +2
}

// This example shows building a fixture polynomial from the small
// expression notation rather than the engine's allocation helpers.
func ExampleParse() {
	names := map[string]int{"S0": 0, "S1": 1}
	p, err := boolpoly.Parse(names, "2*S1 + S0")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(p.String([]string{"S0", "S1"}, " + "))

	// Output:
	// +2·S1 + +1·S0
}

func ExamplePolynomial_String() {
	p := boolpoly.NewPolynomial(
		boolpoly.NewMonomial(-1, []int{0, 1}),
		boolpoly.NewMonomial(5, []int{1}),
	)
	fmt.Println(p.String([]string{"x", "y"}, " + "))

	// Output:
	// +5·y + -1·x·y
}
