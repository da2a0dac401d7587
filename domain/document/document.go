// Package document provides the stored document value type and pure helpers
// for identifiers and partial updates.
package document

import (
	"reflect"
	"time"
)

// Reserved field names.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldDisabled  = "disabled"
)

// Document is one stored record: top-level field name to value.
// The store-assigned identifier lives under FieldID as a hex string.
type Document map[string]any

// ID returns the document identifier, or "" if it has none.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a deep copy of d. Nested objects and arrays decoded from
// JSON or BSON are copied so the result shares no mutable state with d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// WithoutID returns a copy of d with the identifier field removed.
// Identifiers are assigned by the store and never rewritten by clients.
func (d Document) WithoutID() Document {
	out := d.Clone()
	delete(out, FieldID)
	return out
}

// Stamp returns a copy of d with server-set fields applied.
func Stamp(d Document, now time.Time, createdAt, softDelete bool) Document {
	out := d.Clone()
	if createdAt {
		out[FieldCreatedAt] = now.UTC()
	}
	if softDelete {
		out[FieldDisabled] = false
	}
	return out
}

// Merge applies a shallow merge of set onto base and reports whether any
// field value changed. Neither base nor set is modified and the result
// shares no nested values with them.
func Merge(base, set Document) (Document, bool) {
	out := base.Clone()
	changed := false
	for k, v := range set {
		if k == FieldID {
			continue
		}
		if old, ok := out[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = true
		}
		out[k] = cloneValue(v)
	}
	return out, changed
}

// DisableSet is the field write used in place of a merge for soft-delete
// resources.
func DisableSet() Document {
	return Document{FieldDisabled: true}
}
