package tparams

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xrage/tparams/i18n"
)

// Error codes surfaced by the pipeline.
const (
	CodeBadRequest = "bad_request"
)

// BaseKey is the error-tree key under which failures of the post-construction
// hook are reported. It never collides with a field name because declaration
// rejects it.
const BaseKey = "base"

// CastingError reports a single value that cannot be coerced to a target
// type. It is always caught by the validator and turned into a tree leaf.
type CastingError struct {
	Value  any
	Target Type
}

func (e *CastingError) Error() string {
	return i18n.T("cast", map[string]string{
		"value":  fmt.Sprint(e.Value),
		"target": e.Target.Kind.String(),
	})
}

// AsCastingError extracts a *CastingError using errors.As internally.
func AsCastingError(err error) (*CastingError, bool) {
	var ce *CastingError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ErrorTree maps a field name to its validation failures. Values are one of:
// []string (leaf messages), ErrorTree (nested schema field), or IndexErrors
// (array field). An empty tree means success; empty subtrees are pruned
// before attachment, never stored.
type ErrorTree map[string]any

// IndexErrors maps an array index to the failures of the element at that
// index. Values are []string or ErrorTree, same as ErrorTree values.
type IndexErrors map[int]any

// Empty reports whether the tree carries no failures.
func (t ErrorTree) Empty() bool { return len(t) == 0 }

// Add appends leaf messages under key, creating the slice when needed.
func (t ErrorTree) Add(key string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	if prev, ok := t[key].([]string); ok {
		t[key] = append(prev, msgs...)
		return
	}
	t[key] = msgs
}

// Attach stores a non-empty subtree or index map under key. Empty values are
// dropped so interior nodes never hold empty children.
func (t ErrorTree) Attach(key string, sub any) {
	switch v := sub.(type) {
	case ErrorTree:
		if len(v) == 0 {
			return
		}
	case IndexErrors:
		if len(v) == 0 {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	case nil:
		return
	}
	t[key] = sub
}

// Flatten renders the tree as "path: message" lines for log and error
// summaries. Paths use slash separators with numeric array indices.
func (t ErrorTree) Flatten() []string {
	var out []string
	flattenInto(&out, "", t)
	sort.Strings(out)
	return out
}

func flattenInto(out *[]string, prefix string, node any) {
	switch v := node.(type) {
	case ErrorTree:
		for k, child := range v {
			flattenInto(out, prefix+"/"+k, child)
		}
	case IndexErrors:
		for i, child := range v {
			flattenInto(out, prefix+"/"+strconv.Itoa(i), child)
		}
	case []string:
		for _, msg := range v {
			*out = append(*out, prefix+": "+msg)
		}
	}
}

// ValidationError is the pipeline-level failure. It carries either a full
// error tree or a free-text message, plus a short machine-readable code.
type ValidationError struct {
	Code    string
	Tree    ErrorTree
	Message string
}

// Error summarizes the first few failures, teacher-style.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	lines := e.Tree.Flatten()
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString(e.Code)
	lim := len(lines)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(lines[i])
	}
	if len(lines) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(lines))
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func badRequest(tree ErrorTree) *ValidationError {
	return &ValidationError{Code: CodeBadRequest, Tree: tree}
}
