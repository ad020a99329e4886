package model

import (
	"fmt"
	"strings"
)

// Entry is one member of a closed enumerated domain: its numeric id as stored
// in replays, a display name, and any extra names accepted as input.
type Entry[T ~uint8] struct {
	Value   T
	Name    string
	Aliases []string
}

// Domain is a closed, labeled set of values with a fixed index order.
// Index order is the order of the entries passed to NewDomain.
type Domain[T ~uint8] struct {
	kind    string
	entries []Entry[T]
	index   map[T]int
	lookup  map[string]T
}

// NewDomain builds a domain from entries. Ids must be unique and strictly
// ascending, and no name or alias may resolve to two different values; a
// violation panics at package init.
func NewDomain[T ~uint8](kind string, entries []Entry[T]) *Domain[T] {
	d := &Domain[T]{
		kind:    kind,
		entries: entries,
		index:   make(map[T]int, len(entries)),
		lookup:  make(map[string]T, len(entries)*2),
	}
	for i, e := range entries {
		if _, dup := d.index[e.Value]; dup {
			panic(fmt.Sprintf("%s domain: duplicate id %d", kind, uint8(e.Value)))
		}
		if i > 0 && e.Value <= entries[i-1].Value {
			panic(fmt.Sprintf("%s domain: id %d out of order", kind, uint8(e.Value)))
		}
		d.index[e.Value] = i

		names := append([]string{e.Name}, e.Aliases...)
		for _, name := range names {
			key := normalizeName(name)
			if prev, dup := d.lookup[key]; dup && prev != e.Value {
				panic(fmt.Sprintf("%s domain: name %q used by ids %d and %d", kind, name, uint8(prev), uint8(e.Value)))
			}
			d.lookup[key] = e.Value
		}
	}
	return d
}

// Kind returns the domain label, e.g. "character".
func (d *Domain[T]) Kind() string { return d.kind }

// Len returns the number of values in the domain.
func (d *Domain[T]) Len() int { return len(d.entries) }

// At returns the value at index i.
func (d *Domain[T]) At(i int) T { return d.entries[i].Value }

// Index returns the position of v in domain order.
func (d *Domain[T]) Index(v T) (int, bool) {
	i, ok := d.index[v]
	return i, ok
}

// Contains reports whether v is a member of the domain.
func (d *Domain[T]) Contains(v T) bool {
	_, ok := d.index[v]
	return ok
}

// FromID converts a raw numeric id into a domain value.
func (d *Domain[T]) FromID(id int) (T, bool) {
	if id < 0 || id > 255 {
		return 0, false
	}
	v := T(id)
	return v, d.Contains(v)
}

// Name returns the canonical display name of v.
func (d *Domain[T]) Name(v T) string {
	i, ok := d.index[v]
	if !ok {
		return fmt.Sprintf("unknown %s %d", d.kind, uint8(v))
	}
	return d.entries[i].Name
}

// Aliases returns the extra input names accepted for v.
func (d *Domain[T]) Aliases(v T) []string {
	i, ok := d.index[v]
	if !ok {
		return nil
	}
	return d.entries[i].Aliases
}

// Values returns every member in domain order.
func (d *Domain[T]) Values() []T {
	out := make([]T, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Value
	}
	return out
}

// Parse resolves a display name or alias, case-insensitively.
func (d *Domain[T]) Parse(s string) (T, error) {
	v, ok := d.lookup[normalizeName(s)]
	if !ok {
		return 0, fmt.Errorf("unrecognized %s %q", d.kind, s)
	}
	return v, nil
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
