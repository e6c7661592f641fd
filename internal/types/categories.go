// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryEntry is one category and its skill keywords.
type CategoryEntry struct {
	Category string
	Skills   []string
}

// CategorySkills is an ordered mapping from category name to a list of skills.
// It marshals to a JSON object whose keys keep insertion order.
type CategorySkills []CategoryEntry

// Get returns the skills for a category and whether the category exists.
func (c CategorySkills) Get(category string) ([]string, bool) {
	for _, e := range c {
		if e.Category == category {
			return e.Skills, true
		}
	}
	return nil, false
}

// Set replaces the skills of an existing category or appends a new one.
func (c *CategorySkills) Set(category string, skills []string) {
	for i := range *c {
		if (*c)[i].Category == category {
			(*c)[i].Skills = skills
			return
		}
	}
	*c = append(*c, CategoryEntry{Category: category, Skills: skills})
}

// Categories returns the category names in order.
func (c CategorySkills) Categories() []string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Category)
	}
	return names
}

// Total returns the number of skills across all categories.
func (c CategorySkills) Total() int {
	n := 0
	for _, e := range c {
		n += len(e.Skills)
	}
	return n
}

// Clone returns a deep copy.
func (c CategorySkills) Clone() CategorySkills {
	out := make(CategorySkills, len(c))
	for i, e := range c {
		out[i] = CategoryEntry{Category: e.Category, Skills: append([]string(nil), e.Skills...)}
	}
	return out
}

// MarshalJSON encodes the categories as an ordered JSON object.
func (c CategorySkills) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Category)
		if err != nil {
			return nil, err
		}
		skills := e.Skills
		if skills == nil {
			skills = []string{}
		}
		val, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string arrays, keeping key order.
func (c *CategorySkills) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category skills: expected JSON object")
	}

	var out CategorySkills
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category skills: expected string key")
		}
		var skills []string
		if err := dec.Decode(&skills); err != nil {
			return fmt.Errorf("category skills: category %q: %w", key, err)
		}
		out.Set(key, skills)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}
