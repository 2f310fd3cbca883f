package ir

// Expression is a sealed interface for expressions.
// Implemented by *LiteralExpr, *Identifier, *PathExpr, *Call, *MethodCall,
// *FieldAccess, *Index, *Binary, *Unary, *Cast, *Reference, *Dereference,
// *BlockExpr, *ArrayExpr, *TupleExpr, *StructLiteral, *RangeExpr,
// *MacroCall, *Conditional and *Unsupported.
type Expression interface {
	exprNode()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitInteger
	LitFloat
	LitBool
	LitChar
)

// Literal is a constant value. Only the field matching Kind is meaningful;
// LitChar stores its single character in Str.
type Literal struct {
	Kind  LiteralKind `json:"kind"`
	Str   string      `json:"str,omitempty"`
	Int   int64       `json:"int,omitempty"`
	Float float64     `json:"float,omitempty"`
	Bool  bool        `json:"bool,omitempty"`
}

// StringLit returns a string literal.
func StringLit(s string) Literal { return Literal{Kind: LitString, Str: s} }

// IntLit returns an integer literal.
func IntLit(n int64) Literal { return Literal{Kind: LitInteger, Int: n} }

// FloatLit returns a float literal.
func FloatLit(f float64) Literal { return Literal{Kind: LitFloat, Float: f} }

// BoolLit returns a boolean literal.
func BoolLit(b bool) Literal { return Literal{Kind: LitBool, Bool: b} }

// CharLit returns a character literal.
func CharLit(r rune) Literal { return Literal{Kind: LitChar, Str: string(r)} }

// LiteralExpr is a literal in expression position.
type LiteralExpr struct {
	Value Literal `json:"value"`
}

// Identifier is a single-segment name such as a local or `self`.
type Identifier struct {
	Name string `json:"name"`
}

// PathExpr is a multi-segment path such as Color::Red or i32::MAX.
type PathExpr struct {
	Segments []string `json:"segments"`
}

// Call is a call of an arbitrary callee expression.
type Call struct {
	Func Expression   `json:"func"`
	Args []Expression `json:"args"`
}

// MethodCall is receiver.method(args).
type MethodCall struct {
	Receiver Expression   `json:"receiver"`
	Method   string       `json:"method"`
	Args     []Expression `json:"args"`
}

// FieldAccess is object.field; tuple indices are fields named "0", "1", ...
type FieldAccess struct {
	Object Expression `json:"object"`
	Field  string     `json:"field"`
}

// Index is object[index].
type Index struct {
	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

// Binary is a binary operation, including assignment forms.
type Binary struct {
	Op    BinaryOp   `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

// Unary is a prefix operation other than dereference.
type Unary struct {
	Op      UnaryOp    `json:"op"`
	Operand Expression `json:"operand"`
}

// Cast is expr as Type.
type Cast struct {
	Expr Expression `json:"expr"`
	Type Type       `json:"type"`
}

// Reference is &expr or &mut expr.
type Reference struct {
	Mutable bool       `json:"mutable"`
	Expr    Expression `json:"expr"`
}

// Dereference is *expr.
type Dereference struct {
	Expr Expression `json:"expr"`
}

// BlockExpr is a block in expression position.
type BlockExpr struct {
	Statements []Statement `json:"statements"`
}

// ArrayExpr is [a, b, c].
type ArrayExpr struct {
	Elements []Expression `json:"elements"`
}

// TupleExpr is (a, b). The empty tuple is the unit value.
type TupleExpr struct {
	Elements []Expression `json:"elements"`
}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

// StructLiteral is Name { field: value, ... }.
type StructLiteral struct {
	Name   string      `json:"name"`
	Fields []FieldInit `json:"fields"`
}

// RangeExpr is start..end or start..=end. Either bound may be nil.
type RangeExpr struct {
	Start     Expression `json:"start,omitempty"`
	End       Expression `json:"end,omitempty"`
	Inclusive bool       `json:"inclusive"`
}

// MacroCall is a macro invocation whose arguments parsed as expressions,
// e.g. println!("{}", x). Name excludes the bang.
type MacroCall struct {
	Name string       `json:"name"`
	Args []Expression `json:"args"`
}

// Conditional is an if/else used as a value.
type Conditional struct {
	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

// Unsupported stands in for a construct the IR cannot represent. It is a
// valid Expression, Statement and Pattern so it can appear anywhere.
// Construct is a short stable description ("closure", "try operator");
// Source is the original text, for diagnostics only.
type Unsupported struct {
	Construct string `json:"construct"`
	Source    string `json:"source,omitempty"`
}

func (*LiteralExpr) exprNode()   {}
func (*Identifier) exprNode()    {}
func (*PathExpr) exprNode()      {}
func (*Call) exprNode()          {}
func (*MethodCall) exprNode()    {}
func (*FieldAccess) exprNode()   {}
func (*Index) exprNode()         {}
func (*Binary) exprNode()        {}
func (*Unary) exprNode()         {}
func (*Cast) exprNode()          {}
func (*Reference) exprNode()     {}
func (*Dereference) exprNode()   {}
func (*BlockExpr) exprNode()     {}
func (*ArrayExpr) exprNode()     {}
func (*TupleExpr) exprNode()     {}
func (*StructLiteral) exprNode() {}
func (*RangeExpr) exprNode()     {}
func (*MacroCall) exprNode()     {}
func (*Conditional) exprNode()   {}

func (*Unsupported) exprNode()    {}
func (*Unsupported) stmtNode()    {}
func (*Unsupported) patternNode() {}
