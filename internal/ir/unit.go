package ir

// CompilationUnit is the root of the IR for one source text.
type CompilationUnit struct {
	Items       []Item       `json:"items"`
	Metadata    Metadata     `json:"metadata"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Metadata describes where a unit came from and what it targets.
type Metadata struct {
	SourceFile        string `json:"source_file,omitempty"`
	RustEdition       string `json:"rust_edition"`
	TargetMojoVersion string `json:"target_mojo_version"`
}

// NewMetadata returns metadata with the default edition and target.
func NewMetadata() Metadata {
	return Metadata{
		RustEdition:       DefaultRustEdition,
		TargetMojoVersion: DefaultMojoVersion,
	}
}

// Diagnostic records a declaration the lowering dropped on purpose.
type Diagnostic struct {
	Kind    string `json:"kind"`    // "trait", "extern_block", "macro", ...
	Name    string `json:"name"`    // declared name, may be empty
	Line    int    `json:"line"`    // 1-based source line
	Message string `json:"message"` // human readable reason
}

// VisibilityKind enumerates Rust visibility forms.
type VisibilityKind int

const (
	VisPrivate VisibilityKind = iota // zero value: no modifier
	VisPublic
	VisCrate
	VisSuper
	VisInPath
)

// Visibility is the visibility of an item or field.
// Path is only set for VisInPath.
type Visibility struct {
	Kind VisibilityKind `json:"kind"`
	Path string         `json:"path,omitempty"`
}

// Public is the visibility of a plain `pub` declaration.
var Public = Visibility{Kind: VisPublic}

// Private is the visibility of an unmarked declaration.
var Private = Visibility{Kind: VisPrivate}

// IsPublic reports whether v is unrestricted `pub`.
func (v Visibility) IsPublic() bool { return v.Kind == VisPublic }

// Item is a sealed interface for top-level declarations.
// Implemented by *Function, *Struct, *Enum, *Impl, *Use, *Module, *Const,
// *Static and *TypeAlias.
type Item interface {
	itemNode()
	// ItemName is the declared name. Impl blocks report their target type.
	ItemName() string
	ItemVisibility() Visibility
}

// ImplItem is a sealed interface for members of an impl block.
// Implemented by *Function, *Const and *TypeAlias.
type ImplItem interface {
	implItemNode()
	ItemName() string
}

// Attribute is an outer attribute such as #[inline] or #[derive(Debug)].
// Tokens holds the argument text after the path, if any.
type Attribute struct {
	Path   string `json:"path"`
	Tokens string `json:"tokens,omitempty"`
}

// Generic is a type or const parameter. Lifetimes are not represented.
type Generic struct {
	Name   string `json:"name"`
	Bounds []Type `json:"bounds,omitempty"`
	// Const is the declared type of a const generic, nil for type params.
	Const Type `json:"const,omitempty"`
}

// Receiver describes the self parameter of a method.
type Receiver struct {
	Reference bool `json:"reference"` // &self or &mut self
	Mutable   bool `json:"mutable"`   // &mut self, or mut self when not a reference
}

// Parameter is a simple name-typed function parameter.
type Parameter struct {
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	Mutable bool   `json:"mutable"`
}

// Function is a free function or a method inside an impl block.
type Function struct {
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	Generics   []Generic   `json:"generics,omitempty"`
	Receiver   *Receiver   `json:"receiver,omitempty"`
	Parameters []Parameter `json:"parameters"`
	ReturnType Type        `json:"return_type,omitempty"` // nil when the signature has none
	Body       []Statement `json:"body"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

func (*Function) itemNode()                    {}
func (*Function) implItemNode()                {}
func (f *Function) ItemName() string           { return f.Name }
func (f *Function) ItemVisibility() Visibility { return f.Visibility }

// HasAttribute reports whether the function carries an attribute with path.
func (f *Function) HasAttribute(path string) bool {
	for _, a := range f.Attributes {
		if a.Path == path {
			return true
		}
	}
	return false
}

// StructKind distinguishes named, tuple and unit structs.
type StructKind int

const (
	StructNamed StructKind = iota
	StructTuple
	StructUnit
)

// Field is a struct field. Tuple struct fields are named "0", "1", ...
type Field struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Type       Type       `json:"type"`
}

// Struct is a struct declaration.
type Struct struct {
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	Kind       StructKind  `json:"kind"`
	Generics   []Generic   `json:"generics,omitempty"`
	Fields     []Field     `json:"fields"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

func (*Struct) itemNode()                    {}
func (s *Struct) ItemName() string           { return s.Name }
func (s *Struct) ItemVisibility() Visibility { return s.Visibility }

// VariantKind distinguishes enum variant payload shapes.
type VariantKind int

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

// VariantData is the payload of an enum variant.
// Types is used by tuple variants, Fields by struct variants.
type VariantData struct {
	Kind   VariantKind `json:"kind"`
	Types  []Type      `json:"types,omitempty"`
	Fields []Field     `json:"fields,omitempty"`
}

// Variant is one enum variant. Discriminant is nil unless given explicitly.
type Variant struct {
	Name         string      `json:"name"`
	Data         VariantData `json:"data"`
	Discriminant Expression  `json:"discriminant,omitempty"`
}

// Enum is an enum declaration.
type Enum struct {
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	Generics   []Generic   `json:"generics,omitempty"`
	Variants   []Variant   `json:"variants"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

func (*Enum) itemNode()                    {}
func (e *Enum) ItemName() string           { return e.Name }
func (e *Enum) ItemVisibility() Visibility { return e.Visibility }

// Impl is an inherent or trait impl block. Trait is nil for inherent impls.
type Impl struct {
	Target   Type       `json:"target"`
	Trait    Type       `json:"trait,omitempty"`
	Generics []Generic  `json:"generics,omitempty"`
	Items    []ImplItem `json:"items"`
}

func (*Impl) itemNode()                  {}
func (i *Impl) ItemName() string         { return TypeString(i.Target) }
func (*Impl) ItemVisibility() Visibility { return Private }

// Use is a use declaration; Path is the use tree as written.
type Use struct {
	Path       string     `json:"path"`
	Visibility Visibility `json:"visibility"`
}

func (*Use) itemNode()                    {}
func (u *Use) ItemName() string           { return u.Path }
func (u *Use) ItemVisibility() Visibility { return u.Visibility }

// Module is a `mod` declaration. External modules (`mod name;`) have no items.
type Module struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Items      []Item     `json:"items"`
	External   bool       `json:"external"`
}

func (*Module) itemNode()                    {}
func (m *Module) ItemName() string           { return m.Name }
func (m *Module) ItemVisibility() Visibility { return m.Visibility }

// Const is a const item. Value is nil for trait-style declarations.
type Const struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Type       Type       `json:"type"`
	Value      Expression `json:"value,omitempty"`
}

func (*Const) itemNode()                    {}
func (*Const) implItemNode()                {}
func (c *Const) ItemName() string           { return c.Name }
func (c *Const) ItemVisibility() Visibility { return c.Visibility }

// Static is a static item.
type Static struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Mutable    bool       `json:"mutable"`
	Type       Type       `json:"type"`
	Value      Expression `json:"value"`
}

func (*Static) itemNode()                    {}
func (s *Static) ItemName() string           { return s.Name }
func (s *Static) ItemVisibility() Visibility { return s.Visibility }

// TypeAlias is a `type Name = T;` declaration.
type TypeAlias struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Generics   []Generic  `json:"generics,omitempty"`
	Type       Type       `json:"type"`
}

func (*TypeAlias) itemNode()                    {}
func (*TypeAlias) implItemNode()                {}
func (t *TypeAlias) ItemName() string           { return t.Name }
func (t *TypeAlias) ItemVisibility() Visibility { return t.Visibility }
