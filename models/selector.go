package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector matches calls by qualified name and arity.
type Selector struct {
	Module   string
	Function string
	Arity    int
	// Variadic selectors match any number of arguments; Arity is ignored.
	Variadic bool
}

// MFA returns the selector of module:function/arity.
func MFA(module, function string, arity int) Selector {
	return Selector{Module: module, Function: function, Arity: arity}
}

// AnyArity returns the selector of module:function with any arity.
func AnyArity(module, function string) Selector {
	return Selector{Module: module, Function: function, Variadic: true}
}

// Matches reports whether a call of module:function with arity arguments
// is selected.
func (s Selector) Matches(module, function string, arity int) bool {
	if s.Module != module || s.Function != function {
		return false
	}
	return s.Variadic || s.Arity == arity
}

func (s Selector) String() string {
	if s.Variadic {
		return fmt.Sprintf("%s:%s/*", s.Module, s.Function)
	}
	return fmt.Sprintf("%s:%s/%d", s.Module, s.Function, s.Arity)
}

// ParseSelector parses "module:function/N" or "module:function/*".
func ParseSelector(text string) (Selector, error) {
	slash := strings.LastIndex(text, "/")
	if slash < 0 {
		return Selector{}, fmt.Errorf("selector %q: missing /arity", text)
	}
	name, arity := text[:slash], text[slash+1:]
	colon := strings.Index(name, ":")
	if colon <= 0 || colon == len(name)-1 {
		return Selector{}, fmt.Errorf("selector %q: want module:function", text)
	}
	module, function := name[:colon], name[colon+1:]
	if arity == "*" {
		return AnyArity(module, function), nil
	}
	n, err := strconv.Atoi(arity)
	if err != nil || n < 0 {
		return Selector{}, fmt.Errorf("selector %q: invalid arity %q", text, arity)
	}
	return MFA(module, function, n), nil
}
