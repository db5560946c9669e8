package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("category not found")

type NotFoundError struct {
	CategoryID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("filter category '%s' not found", e.CategoryID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Category is one filterable dimension of bill tags.
type Category struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
	Active bool     `json:"active" yaml:"-"`
}

// Catalog is the read-only set of filter categories. It is built once from
// static configuration and never looks at bill data.
type Catalog struct {
	categories []Category
	index      map[string]int
}

func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for i, category := range categories {
		id := strings.TrimSpace(category.ID)
		if id == "" {
			return nil, fmt.Errorf("category at index %d has no id", i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("duplicate category id '%s'", id)
		}

		name := strings.TrimSpace(category.Name)
		if name == "" {
			name = id
		}

		values := make([]string, 0, len(category.Values))
		seen := make(map[string]bool, len(category.Values))
		for _, v := range category.Values {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}

		c.index[id] = len(c.categories)
		c.categories = append(c.categories, Category{ID: id, Name: name, Values: values})
	}

	return c, nil
}

// Categories returns a copy of the categories in configuration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = category
		out[i].Values = append([]string{}, category.Values...)
	}
	return out
}

// TagsOf returns the tag values of one category.
func (c *Catalog) TagsOf(categoryID string) ([]string, error) {
	i, ok := c.index[categoryID]
	if !ok {
		return nil, &NotFoundError{CategoryID: categoryID}
	}
	return append([]string{}, c.categories[i].Values...), nil
}

func (c *Catalog) Has(categoryID string) bool {
	_, ok := c.index[categoryID]
	return ok
}

// Tags returns every tag of every category, de-duplicated, in catalog
// order.
func (c *Catalog) Tags() []string {
	var tags []string
	seen := make(map[string]bool)
	for _, category := range c.categories {
		for _, v := range category.Values {
			if !seen[v] {
				seen[v] = true
				tags = append(tags, v)
			}
		}
	}
	return tags
}

func (c *Catalog) Len() int {
	return len(c.categories)
}

// DefaultTags are the tags bills carried before a catalog file existed.
var DefaultTags = []string{
	"Legislative reform",
	"Public policy",
	"Governance",
	"Social justice",
	"Equality",
	"Human rights",
	"Environmental protection",
	"Consumer protection",
	"Labor rights",
	"Healthcare reform",
	"Education reform",
}

// Default returns the built-in catalog: one "topic" category holding
// DefaultTags.
func Default() *Catalog {
	c, _ := New([]Category{{ID: "topic", Name: "Topic", Values: DefaultTags}})
	return c
}
