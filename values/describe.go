package values

import (
	"strings"

	"github.com/podhmo/symerl/absdom"
)

const maxDescribeDepth = 16

// Describe renders the value at a in source syntax as far as the state
// knows it. Unknown parts print as their address.
func Describe(st *absdom.State, a absdom.Addr) string {
	var b strings.Builder
	describe(&b, st, a, 0)
	return b.String()
}

func describe(b *strings.Builder, st *absdom.State, a absdom.Addr, depth int) {
	if depth > maxDescribeDepth {
		b.WriteString("...")
		return
	}
	peek := func(typ absdom.RuntimeType, field string) (absdom.Addr, bool) {
		v, ok := st.PeekField(a, typ, field)
		return v.Addr, ok
	}

	switch t := st.Type(a); t.Kind {
	case absdom.AtomKind:
		if name, ok := peek(t, FieldAtomName); ok {
			if s, ok := st.StringConst(name); ok {
				b.WriteString(s)
				return
			}
		}
		b.WriteString("atom:" + a.String())
	case absdom.IntegerKind:
		if v, ok := peek(t, FieldIntValue); ok {
			if n, ok := st.IntConst(v); ok {
				b.WriteString(n.String())
				return
			}
		}
		b.WriteString("int:" + a.String())
	case absdom.NilKind:
		b.WriteString("[]")
	case absdom.ConsKind:
		b.WriteString("[")
		cur := a
		for i := 0; st.Type(cur) == absdom.Cons && i <= maxDescribeDepth; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			head, _ := st.PeekField(cur, absdom.Cons, FieldHead)
			describe(b, st, head.Addr, depth+1)
			tail, ok := st.PeekField(cur, absdom.Cons, FieldTail)
			if !ok {
				b.WriteString(" | ...")
				break
			}
			cur = tail.Addr
		}
		if st.Type(cur) != absdom.Nil && st.Type(cur) != absdom.Cons {
			b.WriteString(" | ")
			describe(b, st, cur, depth+1)
		}
		b.WriteString("]")
	case absdom.TupleKind:
		b.WriteString("{")
		for i := 1; i <= t.Arity; i++ {
			if i > 1 {
				b.WriteString(", ")
			}
			if e, ok := peek(t, TupleField(i)); ok {
				describe(b, st, e, depth+1)
			} else {
				b.WriteString("_")
			}
		}
		b.WriteString("}")
	case absdom.MapKind:
		empty, ok := peek(t, FieldMapIsEmpty)
		if ok && st.Eval(empty) == absdom.True {
			b.WriteString("#{}")
			return
		}
		key, _ := peek(t, FieldMapKey)
		value, _ := peek(t, FieldMapValue)
		b.WriteString("#{")
		describe(b, st, key, depth+1)
		b.WriteString(" => ")
		describe(b, st, value, depth+1)
		b.WriteString(", ...}")
	default:
		b.WriteString(a.String())
	}
}
