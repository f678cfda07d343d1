package gtp

// SymbolKind tells token references apart from rule references
type SymbolKind int

const (
	TokenSymbol SymbolKind = iota
	RuleSymbol
)

// Symbol is a reference within a production.  Rules reference each
// other only by name, so grammars can be mutually recursive without
// owning each other.
type Symbol struct {
	Kind SymbolKind
	Name string

	// Retain is only meaningful for token references: when set,
	// the matched token is kept in the tree as a Leaf
	Retain bool
}

func (s Symbol) IsToken() bool { return s.Kind == TokenSymbol }
func (s Symbol) IsRule() bool  { return s.Kind == RuleSymbol }

// Production is a closed union of the five production expressions.
// The unexported method keeps other packages from adding variants,
// and consumers implement ProductionVisitor so the compiler makes
// them handle every one of them.
type Production interface {
	// Accept dispatches to the visitor method of the concrete type
	Accept(ProductionVisitor) error

	// Nullable is true when the production can match without
	// consuming any token
	Nullable() bool

	// String renders the production in the grammar notation
	String() string

	isProduction()
}

type ProductionVisitor interface {
	VisitSymbol(*SymbolProduction) error
	VisitGroup(*GroupProduction) error
	VisitOptional(*OptionalProduction) error
	VisitRepeated(*RepeatedProduction) error
	VisitAlternation(*AlternationProduction) error
}

// Production Type: Symbol

type SymbolProduction struct{ Symbol Symbol }

// TokenRef references a token type whose text is dropped from the tree
func TokenRef(name string) *SymbolProduction {
	return &SymbolProduction{Symbol{Kind: TokenSymbol, Name: name}}
}

// RawTokenRef references a token type whose text is kept as a Leaf
func RawTokenRef(name string) *SymbolProduction {
	return &SymbolProduction{Symbol{Kind: TokenSymbol, Name: name, Retain: true}}
}

// RuleRef references all the alternatives declared under `name`
func RuleRef(name string) *SymbolProduction {
	return &SymbolProduction{Symbol{Kind: RuleSymbol, Name: name}}
}

func (p *SymbolProduction) Accept(v ProductionVisitor) error { return v.VisitSymbol(p) }
func (p *SymbolProduction) Nullable() bool                   { return false }
func (p *SymbolProduction) String() string                   { return printProduction(p) }
func (*SymbolProduction) isProduction()                      {}

// Production Type: Group

type GroupProduction struct{ Items []Production }

func NewGroup(items ...Production) *GroupProduction {
	return &GroupProduction{Items: items}
}

func (p *GroupProduction) Accept(v ProductionVisitor) error { return v.VisitGroup(p) }
func (p *GroupProduction) Nullable() bool                   { return false }
func (p *GroupProduction) String() string                   { return printProduction(p) }
func (*GroupProduction) isProduction()                      {}

// Production Type: Optional

type OptionalProduction struct{ Expr Production }

func NewOptional(expr Production) *OptionalProduction {
	return &OptionalProduction{Expr: expr}
}

func (p *OptionalProduction) Accept(v ProductionVisitor) error { return v.VisitOptional(p) }
func (p *OptionalProduction) Nullable() bool                   { return true }
func (p *OptionalProduction) String() string                   { return printProduction(p) }
func (*OptionalProduction) isProduction()                      {}

// Production Type: Repeated

type RepeatedProduction struct{ Expr Production }

func NewRepeated(expr Production) *RepeatedProduction {
	return &RepeatedProduction{Expr: expr}
}

func (p *RepeatedProduction) Accept(v ProductionVisitor) error { return v.VisitRepeated(p) }
func (p *RepeatedProduction) Nullable() bool                   { return true }
func (p *RepeatedProduction) String() string                   { return printProduction(p) }
func (*RepeatedProduction) isProduction()                      {}

// Production Type: Alternation

// AlternationProduction is an ordered choice: Left is taken whenever
// the lookahead can start it, Right otherwise
type AlternationProduction struct{ Left, Right Production }

func NewAlternation(left, right Production) *AlternationProduction {
	return &AlternationProduction{Left: left, Right: right}
}

func (p *AlternationProduction) Accept(v ProductionVisitor) error { return v.VisitAlternation(p) }
func (p *AlternationProduction) Nullable() bool                   { return p.Left.Nullable() || p.Right.Nullable() }
func (p *AlternationProduction) String() string                   { return printProduction(p) }
func (*AlternationProduction) isProduction()                      {}

// InspectProduction traverses a production in depth-first order.  It calls `f`
// for each production; children are skipped when `f` returns false.
func InspectProduction(p Production, f func(Production) bool) {
	if p == nil || !f(p) {
		return
	}
	switch n := p.(type) {
	case *GroupProduction:
		for _, item := range n.Items {
			InspectProduction(item, f)
		}
	case *OptionalProduction:
		InspectProduction(n.Expr, f)
	case *RepeatedProduction:
		InspectProduction(n.Expr, f)
	case *AlternationProduction:
		InspectProduction(n.Left, f)
		InspectProduction(n.Right, f)
	}
}
