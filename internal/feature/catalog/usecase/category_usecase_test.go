package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/shared/ids"
)

func TestCategoryUsecase_Create(t *testing.T) {
	tests := []struct {
		name     string
		catName  string
		imageURL string
		repoErr  error
		wantErr  error
	}{
		{name: "success", catName: " Snacks ", imageURL: "https://img/snacks.png"},
		{name: "missing name", catName: "", imageURL: "https://img/x.png", wantErr: usecase.ErrInvalidInput},
		{name: "missing image", catName: "Snacks", imageURL: "  ", wantErr: usecase.ErrInvalidInput},
		{name: "duplicate", catName: "Snacks", imageURL: "https://img/x.png", repoErr: usecase.ErrCategoryExists, wantErr: usecase.ErrCategoryExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *entity.Category
			repo := &mockCategoryRepository{CreateFunc: func(_ context.Context, c *entity.Category) error {
				stored = c
				return tt.repoErr
			}}
			uc := usecase.NewCategoryUsecase(repo, &mockProductRepository{}, &directRunner{}, nil)

			got, err := uc.Create(context.Background(), tt.catName, tt.imageURL)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Snacks", got.Name)
			assert.True(t, ids.Valid(got.ID))
			assert.Same(t, stored, got)
		})
	}
}

func TestCategoryUsecase_Update(t *testing.T) {
	id := ids.New()
	repo := &mockCategoryRepository{
		FindByIDFunc: func(_ context.Context, got string) (*entity.Category, error) {
			if got != id {
				return nil, usecase.ErrCategoryNotFound
			}
			return &entity.Category{ID: id, Name: "Old", ImageURL: "old.png"}, nil
		},
	}
	cache := &countingCache{}
	uc := usecase.NewCategoryUsecase(repo, &mockProductRepository{}, &directRunner{}, cache)

	got, err := uc.Update(context.Background(), id, "New", "new.png")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "new.png", got.ImageURL)
	assert.Equal(t, 1, cache.flushes)

	_, err = uc.Update(context.Background(), ids.New(), "New", "new.png")
	assert.ErrorIs(t, err, usecase.ErrCategoryNotFound)

	_, err = uc.Update(context.Background(), id, "New", "")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = uc.Update(context.Background(), "garbage", "New", "new.png")
	assert.ErrorIs(t, err, usecase.ErrCategoryNotFound)
}

func TestCategoryUsecase_Delete(t *testing.T) {
	id := ids.New()

	tests := []struct {
		name      string
		id        string
		inUse     bool
		usageErr  error
		deleteErr error
		wantErr   error
		deleted   bool
	}{
		{name: "unused category is deleted", id: id, deleted: true},
		{name: "in use", id: id, inUse: true, wantErr: usecase.ErrCategoryInUse},
		{name: "not found", id: id, deleteErr: usecase.ErrCategoryNotFound, wantErr: usecase.ErrCategoryNotFound, deleted: true},
		{name: "malformed id", id: "nope", wantErr: usecase.ErrCategoryNotFound},
		{name: "usage lookup fails", id: id, usageErr: errors.New("db down"), wantErr: errors.New("db down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &mockCategoryRepository{DeleteFunc: func(_ context.Context, got string) error {
				deleted = true
				assert.Equal(t, id, got)
				return tt.deleteErr
			}}
			products := &mockProductRepository{ExistsByCategoryFunc: func(context.Context, string) (bool, error) {
				return tt.inUse, tt.usageErr
			}}
			runner := &directRunner{}

			err := usecase.NewCategoryUsecase(repo, products, runner, nil).Delete(context.Background(), tt.id)

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, 1, runner.calls)
			case tt.usageErr != nil:
				assert.EqualError(t, err, tt.wantErr.Error())
			default:
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}

type countingCache struct{ flushes int }

func (c *countingCache) InvalidateAll(context.Context) error {
	c.flushes++
	return nil
}
