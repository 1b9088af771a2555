package store

import (
	"context"
	"slices"

	"expensepad/internal/core"
)

// Categories is the category store view of a State. It performs no name
// validation; callers validate and confirm before mutating.
type Categories struct {
	s *State
}

// List returns copies of every category in insertion order.
func (c *Categories) List() []core.Category {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := make([]core.Category, len(c.s.categories))
	for i, cat := range c.s.categories {
		out[i] = cat.Clone()
	}
	return out
}

// Get looks a category up by exact name.
func (c *Categories) Get(name string) (core.Category, bool) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	i := c.indexLocked(name)
	if i < 0 {
		return core.Category{}, false
	}
	return c.s.categories[i].Clone(), true
}

// Add appends a user category. Empty or already present names are ignored.
func (c *Categories) Add(ctx context.Context, name string) bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if name == "" || c.indexLocked(name) >= 0 {
		return false
	}
	c.s.categories = append(c.s.categories, core.Category{Name: name, Subcategories: []string{}})
	c.s.notifyLocked(ctx)
	return true
}

// Remove deletes a non-default category together with every expense filed
// under it. Default and unknown categories leave the state untouched.
func (c *Categories) Remove(ctx context.Context, name string) bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	i := c.indexLocked(name)
	if i < 0 || c.s.categories[i].IsDefault {
		return false
	}
	c.s.categories = slices.Delete(slices.Clone(c.s.categories), i, i+1)
	c.s.expenses = slices.DeleteFunc(slices.Clone(c.s.expenses), func(e core.Expense) bool {
		return e.Category == name
	})
	c.s.notifyLocked(ctx)
	return true
}

// AddSubcategory appends sub to the named category. Duplicates are allowed.
func (c *Categories) AddSubcategory(ctx context.Context, category, sub string) bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	i := c.indexLocked(category)
	if i < 0 {
		return false
	}
	cat := c.s.categories[i].Clone()
	cat.Subcategories = append(cat.Subcategories, sub)
	c.s.categories[i] = cat
	c.s.notifyLocked(ctx)
	return true
}

// RemoveSubcategory drops every entry equal to sub from the named category.
func (c *Categories) RemoveSubcategory(ctx context.Context, category, sub string) bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	i := c.indexLocked(category)
	if i < 0 || !c.s.categories[i].HasSubcategory(sub) {
		return false
	}
	cat := c.s.categories[i].Clone()
	cat.Subcategories = slices.DeleteFunc(cat.Subcategories, func(s string) bool { return s == sub })
	c.s.categories[i] = cat
	c.s.notifyLocked(ctx)
	return true
}

func (c *Categories) indexLocked(name string) int {
	return slices.IndexFunc(c.s.categories, func(cat core.Category) bool { return cat.Name == name })
}
