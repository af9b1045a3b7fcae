package boolpoly

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vantiso/boolpoly/exprast"
	"github.com/vantiso/boolpoly/exprscan"
)

// Parse parses input, a small arithmetic expression such as "2*S1 + S0" or
// "A*B + A + B - 2*A*B", into the Polynomial it denotes. Identifiers are
// resolved through names (variable name -> internal slot); an identifier
// absent from names, or any other malformed input, yields a wrapped error.
//
// This is a fixture-building convenience, not a circuit reader: it knows
// nothing about gates, only sums of signed products of named variables.
func Parse(names map[string]int, input string) (*Polynomial, error) {
	n, err := exprast.Parse(exprscan.NewScanner(bytes.NewBufferString(input)))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	p, err := evaluate(n, names)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return p, nil
}

func evaluate(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	switch n.Token.Type {
	case exprscan.Parenthesis:
		return evaluateParenthesis(n, names)
	case exprscan.Operator:
		return evaluateOperator(n, names)
	case exprscan.Int:
		return evaluateInt(n)
	case exprscan.Identifier:
		return evaluateIdentifier(n, names)
	default:
		return nil, errors.Errorf("unknown node %#v", n)
	}
}

func evaluateParenthesis(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	if n.Left == nil {
		return nil, errors.Errorf("%#v", n)
	}
	return evaluate(n.Left, names)
}

func evaluateOperator(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	switch n.Token.Text {
	case "+":
		return evaluatePlus(n, names)
	case "-":
		return evaluateMinus(n, names)
	case "*":
		return evaluateMultiply(n, names)
	default:
		return nil, errors.Errorf("%#v", n)
	}
}

func evaluateIdentifier(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	slot, ok := names[n.Token.Text]
	if !ok {
		return nil, errors.Errorf("undeclared variable %q", n.Token.Text)
	}
	return NewPolynomial(NewMonomial(1, []int{slot})), nil
}

func evaluatePlus(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	left, right, err := evaluateLeftRight(n, names)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	return Empty().Add(left, right), nil
}

func evaluateMinus(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	left, right, err := evaluateLeftRight(n, names)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	negRight := Empty().MulScalar(right, -1)
	return Empty().Add(left, negRight), nil
}

func evaluateMultiply(n *exprast.Node, names map[string]int) (*Polynomial, error) {
	left, right, err := evaluateLeftRight(n, names)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	return Empty().Mul(left, right), nil
}

func evaluateInt(n *exprast.Node) (*Polynomial, error) {
	i, err := strconv.ParseInt(n.Token.Text, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	if i == 0 {
		return Empty(), nil
	}
	return NewPolynomial(NewMonomial(i, nil)), nil
}

func evaluateLeftRight(n *exprast.Node, names map[string]int) (*Polynomial, *Polynomial, error) {
	if n.Left == nil {
		return nil, nil, errors.Errorf("%#v", n)
	}
	left, err := evaluate(n.Left, names)
	if err != nil {
		return nil, nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	if n.Right == nil {
		return nil, nil, errors.Errorf("%#v", n)
	}
	right, err := evaluate(n.Right, names)
	if err != nil {
		return nil, nil, errors.Wrap(err, fmt.Sprintf("%#v", n))
	}
	return left, right, nil
}
