// Package rules loads user supplied models from a configuration file. A
// rule pairs a call selector with a description of the value the call
// returns; calls matching the selector then return a freshly constructed
// value of that shape.
//
// The file is JSON or YAML. Its top level is either a list of rules or
// an envelope {"version": "v1.0.0", "rules": [...]}. A rule is
//
//	{"selector": {"MFA": {"module": "m", "function": "f", "arity": 2}},
//	 "behavior": {"ReturnValue": {"Tuple": [{"Atom": "ok"}, null]}}}
//
// where the selector may also be written as the text "m:f/2" and a value
// is null (anything), {"Atom": name-or-null}, {"IntLit": "123"},
// {"List": [...]} or {"Tuple": [...]}. The behavior {"Raise": "badmatch"}
// makes the call fail with the named error kind instead.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
)

// ErrUnsupportedVersion is returned for an envelope whose version this
// package cannot read.
var ErrUnsupportedVersion = errors.New("unsupported rules version")

// Rule is a single user supplied model.
type Rule struct {
	Selector models.Selector
	Return   Value
	Raise    absdom.ErrorKind // when set, the call fails and Return is unused
}

// Format is the syntax of a rules file.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks the format from the file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ReadFile reads and parses a rules file.
func ReadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rules file %q: %w", path, err)
	}
	rules, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("rules file %q: %w", path, err)
	}
	return rules, nil
}

// Load reads the rules at path and turns them into model entries. A file
// that cannot be read or parsed is reported as a warning and yields no
// entries, so the built-in models keep working.
func Load(path string, logger *slog.Logger) []models.Entry {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	rules, err := ReadFile(path)
	if err != nil {
		logger.Warn("ignoring malformed rules configuration", "path", path, "error", err)
		return nil
	}
	entries := make([]models.Entry, len(rules))
	for i, r := range rules {
		entries[i] = r.Entry(path)
		logger.Debug("loaded rule", "selector", r.Selector.String(), "origin", path)
	}
	return entries
}

// Entry returns the model entry of the rule.
func (r Rule) Entry(origin string) models.Entry {
	ret, kind := r.Return, r.Raise
	return models.Entry{
		Selector: r.Selector,
		Origin:   origin,
		Bind: func([]models.Arg) models.Model {
			return func(data models.Data, st *absdom.State) models.Branches {
				if kind != 0 {
					msg := fmt.Sprintf("%s raised by a rule from %s", kind, origin)
					return models.Fail(data, st, kind, msg, absdom.History{})
				}
				st, v := Synthesize(st, data.Location, ret)
				return models.Return(data, st, v)
			}
		},
	}
}

// Entries returns the model entries of rules.
func Entries(rules []Rule, origin string) []models.Entry {
	out := make([]models.Entry, len(rules))
	for i, r := range rules {
		out[i] = r.Entry(origin)
	}
	return out
}
