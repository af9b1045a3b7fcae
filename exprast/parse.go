// Package exprast builds a binary expression tree from an exprscan token
// stream via precedence climbing, with implicit multiplication on
// juxtaposition (e.g. "2 S1" means "2 * S1").
package exprast

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vantiso/boolpoly/exprscan"
)

// AddedLine marks a token synthesized by the parser (implicit "*", the
// leading "0" of a unary minus) rather than read from the input.
const AddedLine = -1

type Node struct {
	Token  exprscan.Token
	Parent *Node
	Left   *Node
	Right  *Node
}

// Parse consumes tokens from scanner until EOF or a closing parenthesis and
// returns the root of the resulting expression tree.
func Parse(scanner *exprscan.Scanner) (*Node, error) {
	// rightMost is the right most node in the current stack. It is either:
	//   * A parenthesis node.
	//   * An operator node whose right child is nil.
	//   * An identifier node.
	rightMost, err := parseFirstToken(scanner)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	for {
		tok := scanner.Next()
		var err error
		switch tok.Type {
		case exprscan.EOF:
			return root(rightMost), nil
		case exprscan.Parenthesis:
			if tok.Text == ")" {
				return root(rightMost), nil
			}
			rightMost, err = parseParenthesis(rightMost, tok, scanner)
		case exprscan.Operator:
			rightMost, err = parseOperator(rightMost, tok, nil)
		case exprscan.Int:
			rightMost, err = parseIdentifier(rightMost, tok)
		case exprscan.Identifier:
			rightMost, err = parseIdentifier(rightMost, tok)
		default:
			err = errors.Errorf("%d: %s", tok.Location.Column, tok.Text)
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseParenthesis(rightMost *Node, tok exprscan.Token, scanner *exprscan.Scanner) (*Node, error) {
	expr, err := Parse(scanner)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	pNode := &Node{Token: tok}
	setLeft(pNode, expr)

	if rightMost == nil {
		return pNode, nil
	}
	if rightMost.Token.Type == exprscan.Operator {
		setRight(rightMost, pNode)
		return pNode, nil
	}

	mulTok := exprscan.Token{Type: exprscan.Operator, Text: "*", Location: exprscan.Location{Line: AddedLine}}
	if _, err := parseOperator(rightMost, mulTok, pNode); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return pNode, nil
}

func parseOperator(rightMost *Node, tok exprscan.Token, rightChild *Node) (*Node, error) {
	for rightMost.Parent != nil {
		if opOrder(tok.Text) > opOrder(rightMost.Parent.Token.Text) {
			break
		}
		rightMost = rightMost.Parent
	}

	op := &Node{Token: tok}
	setRight(rightMost.Parent, op)
	setLeft(op, rightMost)
	setRight(op, rightChild)
	return op, nil
}

func parseIdentifier(rightMost *Node, tok exprscan.Token) (*Node, error) {
	iNode := &Node{Token: tok}
	if rightMost.Token.Type == exprscan.Operator {
		setRight(rightMost, iNode)
		return iNode, nil
	}

	mulTok := exprscan.Token{Type: exprscan.Operator, Text: "*", Location: exprscan.Location{Line: AddedLine}}
	if _, err := parseOperator(rightMost, mulTok, iNode); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return iNode, nil
}

func parseFirstToken(scanner *exprscan.Scanner) (*Node, error) {
	tok := scanner.Next()
	switch tok.Type {
	case exprscan.Parenthesis:
		return parseParenthesis(nil, tok, scanner)
	case exprscan.Operator:
		// A leading "+" or "-" is unary: synthesize "0 <op> expr".
		if tok.Text == "*" {
			return nil, errors.Errorf("%d: unexpected leading operator %q", tok.Location.Column, tok.Text)
		}
		rightMost := &Node{Token: tok}
		setLeft(rightMost, &Node{Token: exprscan.Token{Type: exprscan.Int, Text: "0", Location: exprscan.Location{Line: AddedLine}}})
		return rightMost, nil
	case exprscan.Int:
		fallthrough
	case exprscan.Identifier:
		return &Node{Token: tok}, nil
	default:
		return nil, errors.Errorf("unknown token %#v", tok)
	}
}

func opOrder(op string) int {
	switch op {
	case "+":
		return 0
	case "-":
		return 0
	case "*":
		return 1
	default:
		panic(fmt.Sprintf("unknown operator %q", op))
	}
}

func root(n *Node) *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func setLeft(parent, n *Node) {
	if parent == n {
		panic(fmt.Sprintf("%#v", n))
	}
	n.Parent = parent
	parent.Left = n
}

func setRight(parent, n *Node) {
	if parent == n {
		panic(fmt.Sprintf("%#v", n))
	}
	if n != nil {
		n.Parent = parent
	}
	if parent != nil {
		parent.Right = n
	}
}
