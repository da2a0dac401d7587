// Package resource provides the resource registry: which document
// collections are exposed and which optional behaviors apply to each.
package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource name is not registered.
var ErrNotFound = errors.New("resource not found")

// Operation is a CRUD operation a resource can expose.
type Operation uint8

const (
	OpCreate Operation = 1 << iota
	OpList
	OpUpdate
	OpDelete

	OpAll = OpCreate | OpList | OpUpdate | OpDelete
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpList:
		return "list"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	var names []string
	for _, op := range []Operation{OpCreate, OpList, OpUpdate, OpDelete} {
		if o&op != 0 {
			names = append(names, op.String())
		}
	}
	return strings.Join(names, ",")
}

// Definition describes one resource (immutable value type).
type Definition struct {
	Name       string // unique registry key
	Path       string // URL path segment
	Collection string // backing collection in the document store
	Label      string // singular human name used in error messages

	// Legacy endpoint names (add_<Singular>, all_<Plural>, ...).
	// Empty values fall back to Path.
	Singular string
	Plural   string

	StampCreatedAt bool // set createdAt on insert
	SoftDelete     bool // disabled=false on insert; update writes disabled=true
	ReportMissing  bool // zero matched/deleted is NotFound instead of a 0 count

	Operations Operation
}

// Allows reports whether op is exposed for this resource.
func (d Definition) Allows(op Operation) bool {
	return d.Operations&op != 0
}

// SingularName returns the legacy singular endpoint name.
func (d Definition) SingularName() string {
	if d.Singular != "" {
		return d.Singular
	}
	return d.Path
}

// PluralName returns the legacy plural endpoint name.
func (d Definition) PluralName() string {
	if d.Plural != "" {
		return d.Plural
	}
	return d.Path
}

// InvalidIDMessage is the client message for a malformed identifier.
func (d Definition) InvalidIDMessage() string {
	return "Invalid " + d.Label + " ID"
}

// NotFoundMessage is the client message when no document matched.
func (d Definition) NotFoundMessage() string {
	if d.Label == "" {
		return "Not found"
	}
	return strings.ToUpper(d.Label[:1]) + d.Label[1:] + " not found"
}

// Validate checks the definition is usable.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if d.Path == "" || strings.Contains(d.Path, "/") {
		return fmt.Errorf("%s: path must be a single segment, got %q", d.Name, d.Path)
	}
	if d.Collection == "" {
		return fmt.Errorf("%s: collection is required", d.Name)
	}
	if d.Operations == 0 {
		return fmt.Errorf("%s: at least one operation is required", d.Name)
	}
	return nil
}

// Registry maps resource names to definitions. It is built once and never
// mutated, so it is safe for concurrent use.
type Registry struct {
	defs   []Definition
	byName map[string]int
}

// NewRegistry builds a registry, rejecting invalid definitions and
// duplicate names or paths.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:   make([]Definition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	paths := make(map[string]string, len(defs))

	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid resource: %w", err)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate resource name %q", d.Name)
		}
		if other, dup := paths[d.Path]; dup {
			return nil, fmt.Errorf("resources %q and %q share path %q", other, d.Name, d.Path)
		}
		paths[d.Path] = d.Name
		r.byName[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}

	return r, nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, error) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return r.defs[i], nil
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return len(r.defs)
}
