package ir

// Statement is a sealed interface for statements.
// Implemented by *ExprStmt, *Let, *Return, *If, *While, *For, *Match,
// *Block, *Break, *Continue and *Unsupported.
type Statement interface {
	stmtNode()
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Expr Expression `json:"expr"`
}

// Let introduces a local binding. Type and Value are optional.
type Let struct {
	Name    string     `json:"name"`
	Mutable bool       `json:"mutable"`
	Type    Type       `json:"type,omitempty"`
	Value   Expression `json:"value,omitempty"`
}

// Return leaves the enclosing function. Value is nil for a bare return.
type Return struct {
	Value Expression `json:"value,omitempty"`
}

// If is a conditional statement. A nil Else means there is no else branch;
// an empty non-nil Else is an explicit empty one.
type If struct {
	Condition Expression  `json:"condition"`
	Then      []Statement `json:"then"`
	Else      []Statement `json:"else,omitempty"`
}

// While loops while Condition holds. `loop` lowers to While with a true
// literal condition.
type While struct {
	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

// For iterates Iterator binding each element to Variable.
type For struct {
	Variable string      `json:"variable"`
	Iterator Expression  `json:"iterator"`
	Body     []Statement `json:"body"`
}

// MatchArm is one arm of a match. Guard is nil when absent.
type MatchArm struct {
	Pattern Pattern     `json:"pattern"`
	Guard   Expression  `json:"guard,omitempty"`
	Body    []Statement `json:"body"`
}

// Match selects the first arm whose pattern (and guard) accepts Subject.
type Match struct {
	Subject Expression `json:"subject"`
	Arms    []MatchArm `json:"arms"`
}

// Block is a nested statement block.
type Block struct {
	Statements []Statement `json:"statements"`
}

// Break leaves the innermost loop.
type Break struct{}

// Continue starts the next iteration of the innermost loop.
type Continue struct{}

func (*ExprStmt) stmtNode() {}
func (*Let) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*For) stmtNode()      {}
func (*Match) stmtNode()    {}
func (*Block) stmtNode()    {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
