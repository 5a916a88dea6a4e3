package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const categoryColumns = "id, category_name, items, created_at, updated_at"

func selectCategories() sq.SelectBuilder {
	return sq.Select(categoryColumns).From("categories")
}

// CreateCategory inserts a new category. Names are unique ignoring case.
func (r *repo) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	ts := now()
	category.CreatedAt = ts
	category.UpdatedAt = ts
	if category.Items == nil {
		category.Items = model.IDList{}
	}

	return r.insert(ctx, "creating category", "category with this name", `
		INSERT INTO categories (id, category_name, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.CategoryName, category.Items,
		category.CreatedAt, category.UpdatedAt,
	)
}

// UpdateCategory renames an existing category.
func (r *repo) UpdateCategory(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = now()
	return r.execOne(ctx, "updating category "+category.ID, "category",
		"UPDATE categories SET category_name = ?, updated_at = ? WHERE id = ?",
		category.CategoryName, category.UpdatedAt, category.ID,
	)
}

// DeleteCategory removes a category row. Items must have been detached
// first (see ClearItemCategory).
func (r *repo) DeleteCategory(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting category "+id, "category",
		"DELETE FROM categories WHERE id = ?", id)
}

// GetCategoryByID retrieves a single category by ID.
func (r *repo) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.getOne(ctx, &c, selectCategories().Where(sq.Eq{"id": id}),
		"getting category "+id, "category")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategoryByName returns the category whose name equals name,
// ignoring case.
func (r *repo) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.getOne(ctx, &c,
		selectCategories().Where(sq.Expr("fold(category_name) = fold(?)", name)).OrderBy(firstMatch),
		"finding category by name", "category")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories retrieves categories matching the filter in creation order.
func (r *repo) ListCategories(ctx context.Context, filter CategoryFilter) ([]model.Category, error) {
	b := selectCategories().OrderBy(firstMatch)
	if filter.Name != nil && *filter.Name != "" {
		b = b.Where(containsFold("category_name", *filter.Name))
	}

	categories := []model.Category{}
	if err := r.selectAll(ctx, &categories, b, "querying categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

// PushCategoryItem appends itemID to the category's items list.
func (r *repo) PushCategoryItem(ctx context.Context, categoryID, itemID string) error {
	if err := r.pushMember(ctx, "categories", "items", categoryID, itemID); err != nil {
		return fmt.Errorf("linking item %s to category: %w", itemID, err)
	}
	return nil
}

// PullCategoryItem removes itemID from the category's items list.
func (r *repo) PullCategoryItem(ctx context.Context, categoryID, itemID string) error {
	if err := r.pullMember(ctx, "categories", "items", categoryID, itemID); err != nil {
		return fmt.Errorf("unlinking item %s from category: %w", itemID, err)
	}
	return nil
}
