// Package filter implements the declarative event filter attached to a
// protocol engine. A filter is a JSON document: an attribute-match map,
// or one of the $and / $or / $not combinators nesting further filters.
// Evaluation is pure; a nil filter accepts every event.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/nidhogg/crossgate/internal/model"
)

// Filter is a compiled event predicate.
type Filter struct {
	root node
}

type node interface {
	match(attrs map[string]any) bool
}

// Parse compiles a raw JSON filter document. An empty document compiles to
// the accept-everything filter.
func Parse(raw json.RawMessage) (*Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}
	n, err := compile(doc)
	if err != nil {
		return nil, err
	}
	return &Filter{root: n}, nil
}

// Match evaluates the filter against one canonical event.
func (f *Filter) Match(ev *model.Event) bool {
	if f == nil || f.root == nil {
		return true
	}
	return f.root.match(ev.Attrs())
}

type andNode struct{ children []node }
type orNode struct{ children []node }
type notNode struct{ child node }

// attrNode matches one attribute against a literal, a candidate list, or a
// boolean presence check.
type attrNode struct {
	key   string
	value any
}

func (n andNode) match(attrs map[string]any) bool {
	for _, c := range n.children {
		if !c.match(attrs) {
			return false
		}
	}
	return true
}

func (n orNode) match(attrs map[string]any) bool {
	for _, c := range n.children {
		if c.match(attrs) {
			return true
		}
	}
	return false
}

func (n notNode) match(attrs map[string]any) bool {
	return !n.child.match(attrs)
}

func (n attrNode) match(attrs map[string]any) bool {
	got, present := attrs[n.key]
	switch want := n.value.(type) {
	case bool:
		return present == want
	case []any:
		for _, w := range want {
			if equal(got, w) {
				return true
			}
		}
		return false
	default:
		return present && equal(got, want)
	}
}

// equal compares a flattened attribute against a filter literal. JSON
// numbers decode as float64; attribute numbers are int64.
func equal(got, want any) bool {
	if g, ok := got.(int64); ok {
		if w, ok := want.(float64); ok {
			return float64(g) == w
		}
	}
	return got == want
}

func compile(doc map[string]json.RawMessage) (node, error) {
	var children []node
	for key, raw := range doc {
		switch key {
		case "$and", "$or":
			subs, err := compileList(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			if key == "$and" {
				children = append(children, andNode{subs})
			} else {
				children = append(children, orNode{subs})
			}
		case "$not":
			var sub map[string]json.RawMessage
			if err := json.Unmarshal(raw, &sub); err != nil {
				return nil, fmt.Errorf("$not: %w", err)
			}
			n, err := compile(sub)
			if err != nil {
				return nil, err
			}
			children = append(children, notNode{n})
		default:
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("attribute %q: %w", key, err)
			}
			children = append(children, attrNode{key: key, value: v})
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return andNode{children}, nil
}

// compileList accepts either a single nested filter object or an array of
// them, per the $or array form.
func compileList(raw json.RawMessage) ([]node, error) {
	var arr []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		nodes := make([]node, 0, len(arr))
		for _, doc := range arr {
			n, err := compile(doc)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		return nodes, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("expected object or array: %w", err)
	}
	n, err := compile(doc)
	if err != nil {
		return nil, err
	}
	return []node{n}, nil
}
