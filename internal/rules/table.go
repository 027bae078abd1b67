// Package rules holds the mapping from category names to file extensions
// and classifies filenames against it.
package rules

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

type entry struct {
	name string
	exts []string // registration order
	set  map[string]struct{}
}

// Table is an ordered rule table. Categories iterate in insertion order,
// which decides the winner when an extension is registered twice.
// Table is not safe for concurrent mutation; callers serialize edits
// against passes (see usecase.Workspace).
type Table struct {
	entries []*entry
	index   map[string]int
}

// Conflict describes an extension registered under more than one category.
type Conflict struct {
	Extension string
	Winner    string // First-registered category, used by the classifier
	Shadowed  string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// NewTableFromCategories builds a table from categories in order.
// Invalid or duplicate entries are dropped; the returned error joins every
// problem found, and the table is always usable.
func NewTableFromCategories(categories []domain.Category) (*Table, error) {
	t := NewTable()
	var errs []error
	for _, c := range categories {
		if err := t.AddCategory(c.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		name, _ := NormalizeCategoryName(c.Name)
		for _, ext := range c.Extensions {
			if err := t.AddExtension(name, ext); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return t, errors.Join(errs...)
}

// NormalizeCategoryName trims and NFC-normalizes a category name and checks
// that it can be used as a folder name directly under the scan target.
func NormalizeCategoryName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	switch {
	case n == "", n == ".", n == "..":
		return "", domain.With(domain.ErrInvalidCategory, "%q", name)
	case strings.ContainsAny(n, `/\`):
		return "", domain.With(domain.ErrInvalidCategory, "%q contains a path separator", name)
	case n == domain.UnclassifiedDir:
		return "", domain.With(domain.ErrReservedCategory, "%q is the fallback folder", name)
	}
	return n, nil
}

// NormalizeExtension lower-cases ext and enforces a single leading dot.
func NormalizeExtension(ext string) (string, error) {
	e := strings.ToLower(norm.NFC.String(strings.TrimSpace(ext)))
	e = "." + strings.TrimLeft(e, ".")
	if e == "." || strings.ContainsAny(e, `/\`) {
		return "", domain.With(domain.ErrInvalidExtension, "%q", ext)
	}
	return e, nil
}

// AddCategory appends an empty category.
func (t *Table) AddCategory(name string) error {
	n, err := NormalizeCategoryName(name)
	if err != nil {
		return err
	}
	if _, ok := t.index[n]; ok {
		return domain.With(domain.ErrDuplicateCategory, "%q", n)
	}
	t.entries = append(t.entries, &entry{name: n, set: make(map[string]struct{})})
	t.index[n] = len(t.entries) - 1
	return nil
}

// AddExtension registers ext under category. Re-adding an extension the
// category already has is a no-op.
func (t *Table) AddExtension(category, ext string) error {
	e, ok := t.lookup(category)
	if !ok {
		return domain.With(domain.ErrUnknownCategory, "%q", category)
	}
	x, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	if _, exists := e.set[x]; exists {
		return nil
	}
	e.set[x] = struct{}{}
	e.exts = append(e.exts, x)
	return nil
}

// RemoveCategory deletes a category and its extensions.
func (t *Table) RemoveCategory(name string) error {
	n := norm.NFC.String(strings.TrimSpace(name))
	idx, ok := t.index[n]
	if !ok {
		return domain.With(domain.ErrNotFound, "category %q", name)
	}
	t.entries = slices.Delete(t.entries, idx, idx+1)
	t.reindex()
	return nil
}

// RemoveExtension unregisters ext from category.
func (t *Table) RemoveExtension(category, ext string) error {
	e, ok := t.lookup(category)
	if !ok {
		return domain.With(domain.ErrNotFound, "category %q", category)
	}
	x, err := NormalizeExtension(ext)
	if err != nil {
		return domain.With(domain.ErrNotFound, "extension %q in %q", ext, category)
	}
	if _, exists := e.set[x]; !exists {
		return domain.With(domain.ErrNotFound, "extension %q in %q", x, category)
	}
	delete(e.set, x)
	e.exts = slices.DeleteFunc(e.exts, func(s string) bool { return s == x })
	return nil
}

// CategoryFor returns the first category, in registration order, that
// registers ext. Lookup is case-insensitive and tolerates a missing dot;
// whitespace is part of the extension.
func (t *Table) CategoryFor(ext string) (string, bool) {
	x := strings.ToLower(norm.NFC.String(ext))
	if !strings.HasPrefix(x, ".") {
		x = "." + x
	}
	for _, e := range t.entries {
		if _, ok := e.set[x]; ok {
			return e.name, true
		}
	}
	return "", false
}

// HasCategory reports whether name is registered.
func (t *Table) HasCategory(name string) bool {
	_, ok := t.lookup(name)
	return ok
}

// CategoryNames returns the category names in registration order.
func (t *Table) CategoryNames() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.name
	}
	return names
}

// Categories returns a copy of the table contents in registration order.
func (t *Table) Categories() []domain.Category {
	out := make([]domain.Category, len(t.entries))
	for i, e := range t.entries {
		out[i] = domain.Category{Name: e.name, Extensions: slices.Clone(e.exts)}
	}
	return out
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.entries)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c, _ := NewTableFromCategories(t.Categories())
	return c
}

// Conflicts lists extensions registered under several categories.
func (t *Table) Conflicts() []Conflict {
	owner := make(map[string]string)
	var out []Conflict
	for _, e := range t.entries {
		for _, x := range e.exts {
			if winner, taken := owner[x]; taken {
				out = append(out, Conflict{Extension: x, Winner: winner, Shadowed: e.name})
				continue
			}
			owner[x] = e.name
		}
	}
	return out
}

func (t *Table) lookup(name string) (*entry, bool) {
	idx, ok := t.index[norm.NFC.String(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return t.entries[idx], true
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.entries))
	for i, e := range t.entries {
		t.index[e.name] = i
	}
}

// Ensure Table implements domain.RuleSet.
var _ domain.RuleSet = (*Table)(nil)
