package labels

import (
	"fmt"
	"strings"
)

// ColumnSpec selects the identifier, age, and sex columns of a label source,
// either by header-name substrings or by 1-based positions. Exactly one mode
// must be active; mixing (or supplying neither) is a configuration error.
type ColumnSpec struct {
	names   *nameSpec
	indices *indexSpec
}

type nameSpec struct {
	id  []string
	age []string
	sex []string
}

type indexSpec struct {
	id  int
	age int
	sex int
}

// ColumnsByName selects columns by case-insensitive substring match against
// header cells. Each argument lists accepted candidates, so "geschlecht" can
// match a header cell like "Geschlecht (1=m, 2=f)".
func ColumnsByName(id, age, sex []string) ColumnSpec {
	return ColumnSpec{names: &nameSpec{id: id, age: age, sex: sex}}
}

// ColumnsByIndex selects columns by 1-based position.
func ColumnsByIndex(id, age, sex int) ColumnSpec {
	return ColumnSpec{indices: &indexSpec{id: id, age: age, sex: sex}}
}

// ByName reports whether the spec resolves columns via header names.
func (c ColumnSpec) ByName() bool { return c.names != nil }

// validate rejects mixed or missing specs before any source I/O happens.
func (c ColumnSpec) validate() error {
	switch {
	case c.names != nil && c.indices != nil:
		return fmt.Errorf("%w: both named and positional columns supplied", ErrAmbiguousColumnSpec)
	case c.names == nil && c.indices == nil:
		return fmt.Errorf("%w: no column selection supplied", ErrAmbiguousColumnSpec)
	}
	if c.names != nil {
		if len(c.names.id) == 0 || len(c.names.age) == 0 || len(c.names.sex) == 0 {
			return fmt.Errorf("%w: named selection needs id, age, and sex candidates", ErrAmbiguousColumnSpec)
		}
		return nil
	}
	for _, index := range []int{c.indices.id, c.indices.age, c.indices.sex} {
		if index < 1 {
			return fmt.Errorf("%w: positional selection needs 1-based indices for id, age, and sex", ErrAmbiguousColumnSpec)
		}
	}
	return nil
}

// columnIndexes holds resolved 0-based column positions.
type columnIndexes struct {
	id  int
	age int
	sex int
}

// resolve turns the spec into concrete column positions. Named resolution
// needs the header row; positional resolution ignores it.
func (c ColumnSpec) resolve(header []string) (columnIndexes, error) {
	if c.indices != nil {
		return columnIndexes{id: c.indices.id - 1, age: c.indices.age - 1, sex: c.indices.sex - 1}, nil
	}

	id, err := findColumn(header, c.names.id)
	if err != nil {
		return columnIndexes{}, err
	}
	age, err := findColumn(header, c.names.age)
	if err != nil {
		return columnIndexes{}, err
	}
	sex, err := findColumn(header, c.names.sex)
	if err != nil {
		return columnIndexes{}, err
	}
	return columnIndexes{id: id, age: age, sex: sex}, nil
}

func findColumn(header []string, candidates []string) (int, error) {
	for i, cell := range header {
		lowered := strings.ToLower(strings.TrimSpace(cell))
		for _, candidate := range candidates {
			needle := strings.ToLower(strings.TrimSpace(candidate))
			if needle != "" && strings.Contains(lowered, needle) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: none of %v matched header %v", ErrColumnNotFound, candidates, header)
}
