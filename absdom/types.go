package absdom

import "fmt"

// TypeKind is the constructor of a runtime type tag.
type TypeKind int

const (
	AnyKind TypeKind = iota
	AtomKind
	IntegerKind
	NilKind
	ConsKind
	TupleKind
	MapKind
)

// RuntimeType is the dynamic type attached to an address. Tuples carry
// their arity, so Tuple(2) and Tuple(3) are distinct types.
type RuntimeType struct {
	Kind  TypeKind
	Arity int
}

var (
	Any     = RuntimeType{Kind: AnyKind}
	Atom    = RuntimeType{Kind: AtomKind}
	Integer = RuntimeType{Kind: IntegerKind}
	Nil     = RuntimeType{Kind: NilKind}
	Cons    = RuntimeType{Kind: ConsKind}
	Map     = RuntimeType{Kind: MapKind}
)

// Tuple returns the type of tuples with the given arity.
func Tuple(arity int) RuntimeType {
	return RuntimeType{Kind: TupleKind, Arity: arity}
}

// IsAny reports whether nothing is known about the type.
func (t RuntimeType) IsAny() bool { return t.Kind == AnyKind }

func (t RuntimeType) String() string {
	switch t.Kind {
	case AnyKind:
		return "Any"
	case AtomKind:
		return "Atom"
	case IntegerKind:
		return "Integer"
	case NilKind:
		return "Nil"
	case ConsKind:
		return "Cons"
	case TupleKind:
		return fmt.Sprintf("Tuple(%d)", t.Arity)
	case MapKind:
		return "Map"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(t.Kind))
	}
}
