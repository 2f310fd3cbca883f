package ir

// BinaryOp enumerates binary operators, assignment forms included.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpBitAndAssign
	OpBitOrAssign
	OpBitXorAssign
	OpShlAssign
	OpShrAssign
)

var binaryOpSymbols = [...]string{
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpRem:          "%",
	OpEq:           "==",
	OpNe:           "!=",
	OpLt:           "<",
	OpLe:           "<=",
	OpGt:           ">",
	OpGe:           ">=",
	OpAnd:          "&&",
	OpOr:           "||",
	OpBitAnd:       "&",
	OpBitOr:        "|",
	OpBitXor:       "^",
	OpShl:          "<<",
	OpShr:          ">>",
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpRemAssign:    "%=",
	OpBitAndAssign: "&=",
	OpBitOrAssign:  "|=",
	OpBitXorAssign: "^=",
	OpShlAssign:    "<<=",
	OpShrAssign:    ">>=",
}

// String returns the Rust spelling of the operator.
func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOpSymbols) {
		return "?"
	}
	return binaryOpSymbols[op]
}

// IsAssign reports whether op is `=` or a compound assignment.
func (op BinaryOp) IsAssign() bool {
	return op >= OpAssign && op <= OpShrAssign
}

// BinaryOpFromSymbol maps a Rust operator spelling to its BinaryOp.
func BinaryOpFromSymbol(sym string) (BinaryOp, bool) {
	for i, s := range binaryOpSymbols {
		if s == sym {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp enumerates prefix operators. Dereference has its own node.
type UnaryOp int

const (
	OpNot UnaryOp = iota // !
	OpNeg                // -
)

// String returns the Rust spelling of the operator.
func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	}
	return "?"
}
