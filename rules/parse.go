package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
)

// Parse reads rules in the given format.
func Parse(data []byte, format Format) ([]Rule, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	items, err := unwrap(doc)
	if err != nil {
		return nil, err
	}
	rules := make([]Rule, len(items))
	for i, item := range items {
		path := fmt.Sprintf("rules[%d]", i)
		if rules[i], err = convertRule(path, item); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			if err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return nil, fmt.Errorf("decode yaml: unexpected document after the first")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json: unexpected data after document")
		}
	}
	return doc, nil
}

func unwrap(doc any) ([]any, error) {
	switch doc := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return doc, nil
	case map[string]any:
		if v, ok := doc["version"]; ok {
			version, ok := v.(string)
			if !ok || !semver.IsValid(version) || semver.Major(version) != "v1" {
				return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, v)
			}
		}
		items, ok := doc["rules"].([]any)
		if !ok {
			return nil, fmt.Errorf("'rules' must be a list")
		}
		return items, nil
	default:
		return nil, fmt.Errorf("top level must be a list of rules or an object with 'rules', got %T", doc)
	}
}

func convertRule(path string, item any) (Rule, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Rule{}, fmt.Errorf("%s: rule must be an object", path)
	}
	sel, err := convertSelector(path+".selector", m["selector"])
	if err != nil {
		return Rule{}, err
	}
	behavior, err := single(path+".behavior", m["behavior"])
	if err != nil {
		return Rule{}, err
	}
	switch behavior.tag {
	case "ReturnValue":
		ret, err := convertValue(path+".behavior.ReturnValue", behavior.body)
		if err != nil {
			return Rule{}, err
		}
		return Rule{Selector: sel, Return: ret}, nil
	case "Raise":
		name, ok := behavior.body.(string)
		if !ok {
			return Rule{}, fmt.Errorf("%s.behavior.Raise: must be an error kind name, got %T", path, behavior.body)
		}
		kind, ok := absdom.ParseErrorKind(name)
		if !ok {
			return Rule{}, fmt.Errorf("%s.behavior.Raise: unknown error kind %q", path, name)
		}
		return Rule{Selector: sel, Raise: kind}, nil
	default:
		return Rule{}, fmt.Errorf("%s.behavior: unknown behavior %q", path, behavior.tag)
	}
}

func convertSelector(path string, v any) (models.Selector, error) {
	if text, ok := v.(string); ok {
		sel, err := models.ParseSelector(text)
		if err != nil {
			return models.Selector{}, fmt.Errorf("%s: %w", path, err)
		}
		return sel, nil
	}
	tagged, err := single(path, v)
	if err != nil {
		return models.Selector{}, err
	}
	if tagged.tag != "MFA" {
		return models.Selector{}, fmt.Errorf("%s: unknown selector %q", path, tagged.tag)
	}
	m, ok := tagged.body.(map[string]any)
	if !ok {
		return models.Selector{}, fmt.Errorf("%s.MFA: must be an object", path)
	}
	module, ok := m["module"].(string)
	if !ok || module == "" {
		return models.Selector{}, fmt.Errorf("%s.MFA: 'module' must be a non-empty string", path)
	}
	function, ok := m["function"].(string)
	if !ok || function == "" {
		return models.Selector{}, fmt.Errorf("%s.MFA: 'function' must be a non-empty string", path)
	}
	arity, ok := toInt(m["arity"])
	if !ok || arity < 0 {
		return models.Selector{}, fmt.Errorf("%s.MFA: 'arity' must be a non-negative integer", path)
	}
	return models.MFA(module, function, arity), nil
}

func convertValue(path string, v any) (Value, error) {
	if v == nil {
		return Nondet{}, nil
	}
	tagged, err := single(path, v)
	if err != nil {
		return nil, err
	}
	path += "." + tagged.tag
	switch tagged.tag {
	case "Atom":
		if tagged.body == nil {
			return Atom{}, nil
		}
		name, ok := tagged.body.(string)
		if !ok {
			return nil, fmt.Errorf("%s: must be a string or null", path)
		}
		return NamedAtom(name), nil
	case "IntLit":
		text, ok := intText(tagged.body)
		if !ok {
			return nil, fmt.Errorf("%s: must be an integer literal", path)
		}
		return IntLit{Text: text}, nil
	case "List", "Tuple":
		items, ok := tagged.body.([]any)
		if !ok && tagged.body != nil {
			return nil, fmt.Errorf("%s: must be a list", path)
		}
		elems := make([]Value, len(items))
		for i, item := range items {
			if elems[i], err = convertValue(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return nil, err
			}
		}
		if tagged.tag == "List" {
			return List{Elems: elems}, nil
		}
		return Tuple{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("%s: unknown value description", path)
	}
}

type taggedValue struct {
	tag  string
	body any
}

// single reads an object with exactly one key, the tag of a variant.
func single(path string, v any) (taggedValue, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return taggedValue{}, fmt.Errorf("%s: want an object with exactly one key, got %v", path, keys)
	}
	for k, body := range m {
		return taggedValue{tag: k, body: body}, nil
	}
	panic("unreachable")
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// intText accepts the literal as text, or as a bare integer.
func intText(v any) (string, bool) {
	var text string
	switch v := v.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	case int:
		text = strconv.Itoa(v)
	default:
		return "", false
	}
	if _, ok := new(big.Int).SetString(text, 10); !ok {
		return "", false
	}
	return text, true
}
