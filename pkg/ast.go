package kaleido

// Expr is the closed set of syntax tree nodes. Every composite node owns its
// children outright; a node handed to a caller is always a fully formed
// subtree.
type Expr interface {
	exprNode()
}

type NumberExpr struct {
	Value float64
}

type VariableExpr struct {
	Name string
}

type BinaryOp string

const (
	OpLess BinaryOp = "<"
	OpAdd  BinaryOp = "+"
	OpSub  BinaryOp = "-"
	OpMul  BinaryOp = "*"
)

type BinaryExpr struct {
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

type CallExpr struct {
	Callee string
	Args   []Expr
}

// Prototype captures a function's name and parameter names, and is shared by
// definitions and externs. The anonymous prototype (empty name, no params)
// wraps expressions typed directly at top level.
type Prototype struct {
	Name   string
	Params []string
}

func (p *Prototype) IsAnonymous() bool {
	return p.Name == "" && len(p.Params) == 0
}

type Function struct {
	Proto *Prototype
	Body  Expr
}

func (*NumberExpr) exprNode() {}

func (*VariableExpr) exprNode() {}

func (*BinaryExpr) exprNode() {}

func (*CallExpr) exprNode() {}

func (*Prototype) exprNode() {}

func (*Function) exprNode() {}

