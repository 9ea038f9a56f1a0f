package symtab

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyTable           = errors.New("symbol table has no scope")
	ErrInvalidArgument      = errors.New("invalid declaration")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
)

type scope map[string]Symbol

// Table is a stack of scopes. The last element of scopes is the innermost
// scope.
type Table struct {
	scopes []scope
}

// New returns a table holding a single empty scope.
func New() *Table {
	return &Table{scopes: []scope{make(scope)}}
}

func (t *Table) Depth() int {
	return len(t.scopes)
}

func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, make(scope))
}

// ExitScope discards the innermost scope and everything declared in it.
func (t *Table) ExitScope() error {
	if len(t.scopes) == 0 {
		return errors.Wrap(ErrEmptyTable, "exit scope")
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
	return nil
}

func (t *Table) innermost() (scope, error) {
	if len(t.scopes) == 0 {
		return nil, ErrEmptyTable
	}
	return t.scopes[len(t.scopes)-1], nil
}

// Declare adds name to the innermost scope.
func (t *Table) Declare(name string, sym Symbol) error {
	inner, err := t.innermost()
	if err != nil {
		return errors.Wrapf(err, "declare %q", name)
	}
	if name == "" {
		return errors.Wrap(ErrInvalidArgument, "empty name")
	}
	if sym == nil {
		return errors.Wrapf(ErrInvalidArgument, "nil symbol for %q", name)
	}
	if _, exists := inner[name]; exists {
		return errors.Wrapf(ErrDuplicateDeclaration, "%q", name)
	}
	inner[name] = sym
	return nil
}

// LookupLocal searches the innermost scope only. A missing name is reported
// as a nil symbol, not an error.
func (t *Table) LookupLocal(name string) (Symbol, error) {
	inner, err := t.innermost()
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %q", name)
	}
	return inner[name], nil
}

// LookupLexical searches from the innermost scope outwards and returns the
// first match.
func (t *Table) LookupLexical(name string) (Symbol, error) {
	if len(t.scopes) == 0 {
		return nil, errors.Wrapf(ErrEmptyTable, "lookup %q", name)
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, nil
		}
	}
	return nil, nil
}

// Names returns the sorted names declared in the innermost scope.
func (t *Table) Names() []string {
	inner, err := t.innermost()
	if err != nil {
		return nil
	}
	return sortedNames(inner)
}

func sortedNames(s scope) []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dump lists every scope, innermost first, one `{name=info, ...}` line each.
func (t *Table) Dump() string {
	var sb strings.Builder
	for i := len(t.scopes) - 1; i >= 0; i-- {
		sb.WriteString(formatScope(t.scopes[i]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ScopeString renders the innermost scope alone.
func (t *Table) ScopeString() string {
	inner, err := t.innermost()
	if err != nil {
		return "{}"
	}
	return formatScope(inner)
}

func formatScope(s scope) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range sortedNames(s) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(s[name].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
