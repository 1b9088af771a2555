package entry

import (
	"context"
	"fmt"
	"strings"

	"expensepad/internal/core"
	"expensepad/internal/log"
)

// Suggestions is the filtered list shown under a category or subcategory
// input.
type Suggestions struct {
	Matches   []string `json:"matches"`
	CanCreate bool     `json:"canCreate"`
}

// SuggestCategories filters category names by case-insensitive substring.
// Creation is offered when no name equals the query ignoring case.
func (f *Form) SuggestCategories(query string) Suggestions {
	cats := f.state.Categories().List()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return suggest(names, query)
}

func (f *Form) SuggestSubcategories(category, query string) Suggestions {
	c, ok := f.state.Categories().Get(category)
	if !ok {
		return Suggestions{Matches: []string{}}
	}
	return suggest(c.Subcategories, query)
}

func suggest(names []string, query string) Suggestions {
	q := strings.ToLower(strings.TrimSpace(query))
	out := Suggestions{Matches: []string{}, CanCreate: q != ""}
	for _, n := range names {
		lower := strings.ToLower(n)
		if strings.Contains(lower, q) {
			out.Matches = append(out.Matches, n)
		}
		if lower == q {
			out.CanCreate = false
		}
	}
	return out
}

// CreateCategory validates name, asks for confirmation, adds the category
// and selects it on the given row (NoRow to skip). If the row disappears
// while the confirmation is pending nothing is created.
func (f *Form) CreateCategory(ctx context.Context, row int, name string, confirm Confirmer) error {
	name = strings.TrimSpace(name)
	if err := f.checkRow(row); err != nil {
		return err
	}
	if err := core.ValidateCategoryName(name); err != nil {
		return err
	}
	if !f.SuggestCategories(name).CanCreate {
		return fmt.Errorf("%w: %s", ErrCategoryExists, name)
	}
	if !confirm.Confirm(ctx, fmt.Sprintf("Add new category %q?", name)) {
		return ErrDeclined
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkRowLocked(row); err != nil {
		return err
	}
	f.state.Categories().Add(ctx, name)
	f.logger.InfoContext(ctx, "Category created", log.FieldOperation, log.OpCreate, log.FieldCategory, name)
	if row != NoRow {
		SetCategory{Category: name}.apply(&f.rows[row])
	}
	return nil
}

// CreateSubcategory is CreateCategory for a subcategory of an existing
// category.
func (f *Form) CreateSubcategory(ctx context.Context, row int, category, name string, confirm Confirmer) error {
	name = strings.TrimSpace(name)
	if err := f.checkRow(row); err != nil {
		return err
	}
	if _, ok := f.state.Categories().Get(category); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if err := core.ValidateSubcategoryName(name); err != nil {
		return err
	}
	if !f.SuggestSubcategories(category, name).CanCreate {
		return fmt.Errorf("%w: %s", ErrSubcategoryExists, name)
	}
	if !confirm.Confirm(ctx, fmt.Sprintf("Add new subcategory %q to %q?", name, category)) {
		return ErrDeclined
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkRowLocked(row); err != nil {
		return err
	}
	f.state.Categories().AddSubcategory(ctx, category, name)
	f.logger.InfoContext(ctx, "Subcategory created", log.FieldOperation, log.OpCreate,
		log.FieldCategory, category, log.FieldSubcategory, name)
	if row != NoRow {
		SetCategory{Category: category}.apply(&f.rows[row])
		SetSubcategory{Subcategory: name}.apply(&f.rows[row])
	}
	return nil
}

// RemoveCategory deletes a user-created category together with every
// expense filed under it. Unknown names are ignored.
func (f *Form) RemoveCategory(ctx context.Context, name string, confirm Confirmer) error {
	c, ok := f.state.Categories().Get(name)
	if !ok {
		return nil
	}
	if c.IsDefault {
		return ErrDefaultCategory
	}
	if !confirm.Confirm(ctx, fmt.Sprintf("Delete category %q and all of its expenses?", name)) {
		return ErrDeclined
	}
	if f.state.Categories().Remove(ctx, name) {
		f.logger.InfoContext(ctx, "Category removed", log.FieldOperation, log.OpDelete, log.FieldCategory, name)
	}
	return nil
}

// RemoveSubcategory deletes sub unless it is part of a default category's
// seeded set. Unknown names are ignored.
func (f *Form) RemoveSubcategory(ctx context.Context, category, sub string, confirm Confirmer) error {
	c, ok := f.state.Categories().Get(category)
	if !ok || !c.HasSubcategory(sub) {
		return nil
	}
	if c.IsDefault && core.IsSeededSubcategory(category, sub) {
		return ErrDefaultSubcategory
	}
	if !confirm.Confirm(ctx, fmt.Sprintf("Delete subcategory %q from %q?", sub, category)) {
		return ErrDeclined
	}
	if f.state.Categories().RemoveSubcategory(ctx, category, sub) {
		f.logger.InfoContext(ctx, "Subcategory removed", log.FieldOperation, log.OpDelete,
			log.FieldCategory, category, log.FieldSubcategory, sub)
	}
	return nil
}

func (f *Form) checkRow(row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkRowLocked(row)
}

func (f *Form) checkRowLocked(row int) error {
	if row == NoRow {
		return nil
	}
	if row < 0 || row >= len(f.rows) {
		return ErrRowNotFound
	}
	return nil
}
