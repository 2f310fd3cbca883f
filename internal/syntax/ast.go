package syntax

// Span is a half-open byte range [Start, End) of the source.
type Span struct {
	Start int
	End   int
}

// Range returns the span itself. Embedding Span gives every node a Range.
func (s Span) Range() Span { return s }

// Node is any syntax tree node.
type Node interface {
	Range() Span
}

// File is a parsed source file.
type File struct {
	Span
	Attrs []*Attribute // inner attributes (#![...])
	Items []Item
}

// Attribute is #[path tokens] or #![path tokens].
type Attribute struct {
	Span
	Inner  bool
	Path   string // e.g. "derive", "cfg", "serde::rename"
	Tokens string // remaining tokens as written, e.g. "(Debug, Clone)"
}

// VisKind enumerates visibility forms.
type VisKind int

const (
	VisInherited VisKind = iota // no modifier
	VisPub                      // pub
	VisCrate                    // pub(crate)
	VisSuper                    // pub(super)
	VisSelf                     // pub(self)
	VisIn                       // pub(in path)
)

// Visibility is a visibility modifier. Path is set for VisIn.
type Visibility struct {
	Kind VisKind
	Path string
}

// ---------------------------------------------------------------------------
// Paths and generics

// Path is a possibly-global sequence of segments: a::b::<T>::c.
type Path struct {
	Span
	Global   bool // leading ::
	Segments []*PathSegment
}

// String joins the segment names with "::", without generic arguments.
func (p *Path) String() string {
	s := ""
	if p.Global {
		s = "::"
	}
	for i, seg := range p.Segments {
		if i > 0 {
			s += "::"
		}
		s += seg.Name
	}
	return s
}

// Last returns the final segment.
func (p *Path) Last() *PathSegment {
	return p.Segments[len(p.Segments)-1]
}

// PathSegment is one path segment with optional generic arguments.
type PathSegment struct {
	Name string
	Raw  bool         // written r#name
	Args *GenericArgs // nil when absent
}

// GenericArgs is <...> or the parenthesised Fn(A, B) -> C sugar.
type GenericArgs struct {
	Span
	Lifetimes []string
	Types     []Type
	Consts    []Expr
	Bindings  []*AssocBinding
	// Paren sugar: Types holds the inputs and Output the return type.
	Paren  bool
	Output Type
}

// AssocBinding is Item = Type or Item: Bound inside generic arguments.
type AssocBinding struct {
	Name   string
	Type   Type   // for Item = Type
	Bounds []Type // for Item: Bound
}

// GenericParamKind enumerates generic parameter kinds.
type GenericParamKind int

const (
	GenericLifetime GenericParamKind = iota
	GenericType
	GenericConst
)

// GenericParam is a lifetime, type or const parameter.
type GenericParam struct {
	Span
	Kind    GenericParamKind
	Name    string // lifetimes include the leading quote
	Bounds  []Type // trait bounds; lifetime bounds are dropped
	Default Type   // type default, nil when absent
	ConstTy Type   // declared type of a const parameter
}

// WherePredicate is `Type: Bound + Bound` in a where clause. Lifetime
// predicates are parsed and discarded.
type WherePredicate struct {
	Bounded Type
	Bounds  []Type
}

// Generics holds the parameter list and where clause of a declaration.
type Generics struct {
	Params []*GenericParam
	Where  []*WherePredicate
}

// ---------------------------------------------------------------------------
// Items

// Item is a sealed interface for items.
type Item interface {
	Node
	itemNode()
}

// ItemFn is a function, method, or bodiless signature in traits and
// extern blocks.
type ItemFn struct {
	Span
	Attrs    []*Attribute
	Vis      Visibility
	Const    bool
	Async    bool
	Unsafe   bool
	Abi      string // extern "C"; empty when absent
	Name     string
	Generics *Generics
	Inputs   []FnArg
	Variadic bool
	Output   Type   // nil when there is no -> clause
	Body     *Block // nil for signatures
}

// FnArg is a sealed interface for function parameters.
type FnArg interface {
	Node
	fnArgNode()
}

// Receiver is a self parameter: self, mut self, &self, &'a mut self,
// self: Box<Self>.
type Receiver struct {
	Span
	Reference  bool
	Lifetime   string
	Mutable    bool // &mut self
	MutBinding bool // mut self
	Ty         Type // explicit type, nil when absent
}

// TypedArg is pattern: Type.
type TypedArg struct {
	Span
	Pat Pat
	Ty  Type
}

// FieldsKind distinguishes struct body shapes.
type FieldsKind int

const (
	FieldsNamed   FieldsKind = iota // { a: T }
	FieldsUnnamed                   // (T, U)
	FieldsUnit                      // no body
)

// Fields is the body of a struct, union or enum variant.
type Fields struct {
	Kind FieldsKind
	List []*Field
}

// Field is one struct or variant field. Name is empty for unnamed fields.
type Field struct {
	Span
	Attrs []*Attribute
	Vis   Visibility
	Name  string
	Ty    Type
}

// ItemStruct is a struct declaration.
type ItemStruct struct {
	Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     string
	Generics *Generics
	Fields   *Fields
}

// ItemUnion is a union declaration.
type ItemUnion struct {
	Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     string
	Generics *Generics
	Fields   *Fields
}

// Variant is an enum variant.
type Variant struct {
	Span
	Attrs        []*Attribute
	Name         string
	Fields       *Fields
	Discriminant Expr // nil when absent
}

// ItemEnum is an enum declaration.
type ItemEnum struct {
	Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     string
	Generics *Generics
	Variants []*Variant
}

// ItemImpl is an inherent or trait impl block.
type ItemImpl struct {
	Span
	Attrs    []*Attribute
	Unsafe   bool
	Generics *Generics
	Negative bool  // impl !Trait for T
	Trait    *Path // nil for inherent impls
	SelfTy   Type
	Items    []Item // *ItemFn, *ItemConst, *ItemType, *ItemMacro
}

// ItemTrait is a trait declaration.
type ItemTrait struct {
	Span
	Attrs       []*Attribute
	Vis         Visibility
	Unsafe      bool
	Auto        bool
	Name        string
	Generics    *Generics
	Supertraits []Type
	Items       []Item
}

// ItemUse is a use declaration. Tree is the use tree as written with
// normalised spacing, e.g. "std::collections::{HashMap, HashSet}".
type ItemUse struct {
	Span
	Attrs []*Attribute
	Vis   Visibility
	Tree  string
}

// ItemMod is a module. Inline is false for `mod name;`.
type ItemMod struct {
	Span
	Attrs  []*Attribute
	Vis    Visibility
	Unsafe bool
	Name   string
	Inline bool
	Items  []Item
}

// ItemConst is a const item. Expr is nil for trait declarations.
type ItemConst struct {
	Span
	Attrs []*Attribute
	Vis   Visibility
	Name  string // "_" for anonymous consts
	Ty    Type
	Expr  Expr
}

// ItemStatic is a static item.
type ItemStatic struct {
	Span
	Attrs   []*Attribute
	Vis     Visibility
	Mutable bool
	Name    string
	Ty      Type
	Expr    Expr // nil inside extern blocks
}

// ItemType is a type alias or an associated type.
type ItemType struct {
	Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     string
	Generics *Generics
	Bounds   []Type // associated type bounds
	Ty       Type   // nil for bodiless associated types
}

// ItemForeignMod is an extern block.
type ItemForeignMod struct {
	Span
	Attrs  []*Attribute
	Unsafe bool
	Abi    string
	Items  []Item
}

// ItemExternCrate is `extern crate name [as rename];`.
type ItemExternCrate struct {
	Span
	Attrs  []*Attribute
	Vis    Visibility
	Name   string
	Rename string
}

// ItemMacro is an item-position macro invocation or a macro_rules!
// definition (Name set).
type ItemMacro struct {
	Span
	Attrs []*Attribute
	Mac   *Macro
	Name  string // macro_rules! name
}

func (*ItemFn) itemNode()          {}
func (*ItemStruct) itemNode()      {}
func (*ItemUnion) itemNode()       {}
func (*ItemEnum) itemNode()        {}
func (*ItemImpl) itemNode()        {}
func (*ItemTrait) itemNode()       {}
func (*ItemUse) itemNode()         {}
func (*ItemMod) itemNode()         {}
func (*ItemConst) itemNode()       {}
func (*ItemStatic) itemNode()      {}
func (*ItemType) itemNode()        {}
func (*ItemForeignMod) itemNode()  {}
func (*ItemExternCrate) itemNode() {}
func (*ItemMacro) itemNode()       {}

func (*Receiver) fnArgNode() {}
func (*TypedArg) fnArgNode() {}

// ---------------------------------------------------------------------------
// Types

// Type is a sealed interface for syntactic types.
type Type interface {
	Node
	typeNode()
}

// TypePath is a path type, optionally qualified: <T as Trait>::Assoc.
type TypePath struct {
	Span
	QSelf Type // nil unless qualified
	Path  *Path
}

// TypeRef is &'a mut T.
type TypeRef struct {
	Span
	Lifetime string
	Mutable  bool
	Elem     Type
}

// TypePtr is *const T or *mut T.
type TypePtr struct {
	Span
	Mutable bool
	Elem    Type
}

// TypeArray is [T; N].
type TypeArray struct {
	Span
	Elem Type
	Len  Expr
}

// TypeSlice is [T].
type TypeSlice struct {
	Span
	Elem Type
}

// TypeTuple is (A, B). The empty tuple is the unit type.
type TypeTuple struct {
	Span
	Elems []Type
}

// TypeParen is (T).
type TypeParen struct {
	Span
	Elem Type
}

// TypeFn is a function pointer type: unsafe extern "C" fn(A) -> B.
type TypeFn struct {
	Span
	Inputs []Type
	Output Type
}

// TypeImplTrait is impl Bound + Bound.
type TypeImplTrait struct {
	Span
	Bounds []Type
}

// TypeDyn is dyn Bound + Bound.
type TypeDyn struct {
	Span
	Bounds []Type
}

// TypeInfer is _.
type TypeInfer struct{ Span }

// TypeNever is !.
type TypeNever struct{ Span }

// TypeMacro is a macro in type position.
type TypeMacro struct {
	Span
	Mac *Macro
}

func (*TypePath) typeNode()      {}
func (*TypeRef) typeNode()       {}
func (*TypePtr) typeNode()       {}
func (*TypeArray) typeNode()     {}
func (*TypeSlice) typeNode()     {}
func (*TypeTuple) typeNode()     {}
func (*TypeParen) typeNode()     {}
func (*TypeFn) typeNode()        {}
func (*TypeImplTrait) typeNode() {}
func (*TypeDyn) typeNode()       {}
func (*TypeInfer) typeNode()     {}
func (*TypeNever) typeNode()     {}
func (*TypeMacro) typeNode()     {}

// ---------------------------------------------------------------------------
// Statements

// Block is { stmts }. A trailing expression without semicolon is the last
// StmtExpr with Semi false.
type Block struct {
	Span
	Stmts []Stmt
}

// Stmt is a sealed interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// StmtLet is let pat: Ty = init else { ... };
type StmtLet struct {
	Span
	Pat  Pat
	Ty   Type
	Init Expr
	Else *Block
}

// StmtItem is an item declared inside a block.
type StmtItem struct {
	Span
	Item Item
}

// StmtExpr is an expression statement. Semi records a trailing semicolon.
type StmtExpr struct {
	Span
	Expr Expr
	Semi bool
}

func (*StmtLet) stmtNode()  {}
func (*StmtItem) stmtNode() {}
func (*StmtExpr) stmtNode() {}

// ---------------------------------------------------------------------------
// Expressions

// Expr is a sealed interface for expressions.
type Expr interface {
	Node
	exprNode()
}

// Lit is a literal token.
type Lit struct {
	Kind  LitKind
	Text  string // source text, including any suffix
	Value string // decoded contents for strings, chars and bytes
}

// ExprLit is a literal, including true and false (Kind LitBool).
type ExprLit struct {
	Span
	Lit Lit
}

// ExprPath is a path expression; QSelf is set for <T as Trait>::item.
type ExprPath struct {
	Span
	QSelf Type
	Path  *Path
}

// ExprCall is f(args).
type ExprCall struct {
	Span
	Func Expr
	Args []Expr
}

// ExprMethodCall is receiver.method::<T>(args).
type ExprMethodCall struct {
	Span
	Receiver  Expr
	Method    string
	Turbofish *GenericArgs
	Args      []Expr
}

// ExprField is base.member; Member is a decimal string for tuple indices.
type ExprField struct {
	Span
	Base   Expr
	Member string
}

// ExprIndex is base[index].
type ExprIndex struct {
	Span
	Base  Expr
	Index Expr
}

// ExprBinary is left op right for non-assigning operators.
type ExprBinary struct {
	Span
	Op    string
	Left  Expr
	Right Expr
}

// ExprAssign is left op right where Op is = or a compound assignment.
type ExprAssign struct {
	Span
	Op    string
	Left  Expr
	Right Expr
}

// ExprUnary is a prefix operator: -, ! or *.
type ExprUnary struct {
	Span
	Op      string
	Operand Expr
}

// ExprRef is &expr, &mut expr or &raw const expr.
type ExprRef struct {
	Span
	Mutable bool
	Raw     bool
	Expr    Expr
}

// ExprCast is expr as Ty.
type ExprCast struct {
	Span
	Expr Expr
	Ty   Type
}

// ExprParen is (expr).
type ExprParen struct {
	Span
	Expr Expr
}

// ExprTuple is (a, b). The empty tuple is unit.
type ExprTuple struct {
	Span
	Elems []Expr
}

// ExprArray is [a, b].
type ExprArray struct {
	Span
	Elems []Expr
}

// ExprRepeat is [elem; len].
type ExprRepeat struct {
	Span
	Elem Expr
	Len  Expr
}

// FieldValue is one field of a struct literal. Shorthand marks `Point { x }`.
type FieldValue struct {
	Name      string
	Expr      Expr
	Shorthand bool
}

// ExprStruct is Path { field: value, ..rest }.
type ExprStruct struct {
	Span
	Path   *Path
	Fields []*FieldValue
	Rest   Expr // nil unless ..base is present
}

// ExprBlock is a block expression, optionally unsafe, async, const or
// labelled.
type ExprBlock struct {
	Span
	Label  string
	Unsafe bool
	Async  bool
	Const  bool
	Block  *Block
}

// ExprIf is if cond { } else ... where Else is *ExprIf or *ExprBlock.
type ExprIf struct {
	Span
	Cond Expr
	Then *Block
	Else Expr
}

// ExprLet is `let pat = expr` in an if or while condition.
type ExprLet struct {
	Span
	Pat  Pat
	Expr Expr
}

// Arm is one match arm.
type Arm struct {
	Span
	Pat   Pat
	Guard Expr
	Body  Expr
}

// ExprMatch is match subject { arms }.
type ExprMatch struct {
	Span
	Subject Expr
	Arms    []*Arm
}

// ExprWhile is 'label: while cond { }.
type ExprWhile struct {
	Span
	Label string
	Cond  Expr
	Body  *Block
}

// ExprLoop is 'label: loop { }.
type ExprLoop struct {
	Span
	Label string
	Body  *Block
}

// ExprForLoop is 'label: for pat in iter { }.
type ExprForLoop struct {
	Span
	Label string
	Pat   Pat
	Iter  Expr
	Body  *Block
}

// ExprBreak is break 'label value.
type ExprBreak struct {
	Span
	Label string
	Value Expr
}

// ExprContinue is continue 'label.
type ExprContinue struct {
	Span
	Label string
}

// ExprReturn is return value.
type ExprReturn struct {
	Span
	Value Expr
}

// ClosureParam is one closure parameter.
type ClosureParam struct {
	Pat Pat
	Ty  Type
}

// ExprClosure is move |params| -> T body.
type ExprClosure struct {
	Span
	Move   bool
	Async  bool
	Params []*ClosureParam
	Output Type
	Body   Expr
}

// ExprRange is start..end or start..=end; both bounds are optional.
type ExprRange struct {
	Span
	Start     Expr
	End       Expr
	Inclusive bool
}

// ExprTry is expr?.
type ExprTry struct {
	Span
	Expr Expr
}

// ExprAwait is expr.await.
type ExprAwait struct {
	Span
	Expr Expr
}

// ExprMacro is a macro invocation in expression or statement position.
type ExprMacro struct {
	Span
	Mac *Macro
}

// Macro is path!(tokens). Args holds the comma separated arguments when
// they parse as expressions; ArgsOK reports whether they did. Repeat marks
// the vec![elem; n] form, in which case Args is [elem, n].
type Macro struct {
	Span
	Path   *Path
	Delim  byte // '(', '[' or '{'
	Tokens []Token
	Args   []Expr
	ArgsOK bool
	Repeat bool
}

func (*ExprLit) exprNode()        {}
func (*ExprPath) exprNode()       {}
func (*ExprCall) exprNode()       {}
func (*ExprMethodCall) exprNode() {}
func (*ExprField) exprNode()      {}
func (*ExprIndex) exprNode()      {}
func (*ExprBinary) exprNode()     {}
func (*ExprAssign) exprNode()     {}
func (*ExprUnary) exprNode()      {}
func (*ExprRef) exprNode()        {}
func (*ExprCast) exprNode()       {}
func (*ExprParen) exprNode()      {}
func (*ExprTuple) exprNode()      {}
func (*ExprArray) exprNode()      {}
func (*ExprRepeat) exprNode()     {}
func (*ExprStruct) exprNode()     {}
func (*ExprBlock) exprNode()      {}
func (*ExprIf) exprNode()         {}
func (*ExprLet) exprNode()        {}
func (*ExprMatch) exprNode()      {}
func (*ExprWhile) exprNode()      {}
func (*ExprLoop) exprNode()       {}
func (*ExprForLoop) exprNode()    {}
func (*ExprBreak) exprNode()      {}
func (*ExprContinue) exprNode()   {}
func (*ExprReturn) exprNode()     {}
func (*ExprClosure) exprNode()    {}
func (*ExprRange) exprNode()      {}
func (*ExprTry) exprNode()        {}
func (*ExprAwait) exprNode()      {}
func (*ExprMacro) exprNode()      {}

// ---------------------------------------------------------------------------
// Patterns

// Pat is a sealed interface for patterns.
type Pat interface {
	Node
	patNode()
}

// PatWild is _.
type PatWild struct{ Span }

// PatRest is .. inside tuple, slice and tuple-struct patterns.
type PatRest struct{ Span }

// PatIdent is ref mut name @ sub.
type PatIdent struct {
	Span
	ByRef   bool
	Mutable bool
	Name    string
	Sub     Pat
}

// PatLit is a literal pattern; Neg records a leading minus.
type PatLit struct {
	Span
	Lit *ExprLit
	Neg bool
}

// PatRange is lo..=hi, lo.., ..=hi. Bounds are *PatLit or *PatPath.
type PatRange struct {
	Span
	Lo        Pat
	Hi        Pat
	Inclusive bool
}

// PatTuple is (a, b).
type PatTuple struct {
	Span
	Elems []Pat
}

// PatParen is (p).
type PatParen struct {
	Span
	Pat Pat
}

// PatPath is a path pattern such as None or Color::Red.
type PatPath struct {
	Span
	Path *Path
}

// PatTupleStruct is Path(a, b).
type PatTupleStruct struct {
	Span
	Path  *Path
	Elems []Pat
}

// FieldPat is one field of a struct pattern.
type FieldPat struct {
	Name      string
	Pat       Pat
	Shorthand bool
}

// PatStruct is Path { field: pat, .. }.
type PatStruct struct {
	Span
	Path   *Path
	Fields []*FieldPat
	Rest   bool
}

// PatRef is &pat or &mut pat.
type PatRef struct {
	Span
	Mutable bool
	Pat     Pat
}

// PatSlice is [a, b, ..].
type PatSlice struct {
	Span
	Elems []Pat
}

// PatOr is a | b.
type PatOr struct {
	Span
	Cases []Pat
}

// PatMacro is a macro in pattern position.
type PatMacro struct {
	Span
	Mac *Macro
}

func (*PatWild) patNode()        {}
func (*PatRest) patNode()        {}
func (*PatIdent) patNode()       {}
func (*PatLit) patNode()         {}
func (*PatRange) patNode()       {}
func (*PatTuple) patNode()       {}
func (*PatParen) patNode()       {}
func (*PatPath) patNode()        {}
func (*PatTupleStruct) patNode() {}
func (*PatStruct) patNode()      {}
func (*PatRef) patNode()         {}
func (*PatSlice) patNode()       {}
func (*PatOr) patNode()          {}
func (*PatMacro) patNode()       {}
