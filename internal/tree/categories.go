package tree

import (
	"context"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// CategoryPatch holds the fields a category update may change.
type CategoryPatch struct {
	CategoryName *string `json:"category_name"`
}

// CreateCategory creates a category. Names are unique ignoring case.
func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	const op = "create category"

	name, err := required(op, "category_name", name)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindCategoryByName(ctx, name); err == nil {
		return nil, apperr.Conflict(op, "category with this name already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Wrap(op, err)
	}

	category := &model.Category{CategoryName: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return category, nil
}

// GetCategory returns the category named name, ignoring case.
func (s *Service) GetCategory(ctx context.Context, name string) (*model.Category, error) {
	const op = "get category"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}
	category, err := s.store.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return category, nil
}

// ListCategories returns categories matching filter.
func (s *Service) ListCategories(ctx context.Context, filter store.CategoryFilter) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list categories", err)
	}
	return categories, nil
}

// UpdateCategory renames the category named name. The new name must not
// belong to another category.
func (s *Service) UpdateCategory(ctx context.Context, name string, patch CategoryPatch) (*model.Category, error) {
	const op = "update category"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}

	var category *model.Category
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		category, err = tx.FindCategoryByName(ctx, name)
		if err != nil {
			return err
		}
		if patch.CategoryName == nil {
			return tx.UpdateCategory(ctx, category)
		}

		newName, err := required(op, "category_name", *patch.CategoryName)
		if err != nil {
			return err
		}
		other, err := tx.FindCategoryByName(ctx, newName)
		switch {
		case err == nil && other.ID != category.ID:
			return apperr.Conflict(op, "category name already in use")
		case err != nil && !apperr.Is(err, apperr.KindNotFound):
			return err
		}
		category.CategoryName = newName
		return tx.UpdateCategory(ctx, category)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return category, nil
}

// DeleteCategory removes the category named name. Items that carried it
// lose the label but are otherwise untouched. It returns how many items
// were relabelled.
func (s *Service) DeleteCategory(ctx context.Context, name string) (int64, error) {
	const op = "delete category"
	if _, err := required(op, "name", name); err != nil {
		return 0, err
	}

	var (
		cleared int64
		id      string
	)
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		category, err := tx.FindCategoryByName(ctx, name)
		if err != nil {
			return err
		}
		id = category.ID
		if cleared, err = tx.ClearItemCategory(ctx, category.ID); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, category.ID)
	})
	if err != nil {
		return 0, apperr.Wrap(op, err)
	}
	s.logger.Info("category deleted", "id", id, "items_cleared", cleared)
	return cleared, nil
}
