package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories map[string]model.Category
	products   map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{categories: map[string]model.Category{}, products: map[string]int{}}
}

func (r *fakeRepo) slugTaken(c *model.Category) bool {
	for _, other := range r.categories {
		if other.StoreID == c.StoreID && other.Slug == c.Slug && other.ID != c.ID {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(_ context.Context, c *model.Category) error {
	if r.slugTaken(c) {
		return apperr.DuplicateSlug(c.Slug)
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, storeID, id string) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.StoreID != storeID {
		return nil, apperr.CategoryNotFound(id)
	}
	c.ProductCount = r.products[id]
	return &c, nil
}

func (r *fakeRepo) FindAll(_ context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	out := []model.Category{}
	for _, c := range r.categories {
		if c.StoreID == f.StoreID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, c *model.Category) error {
	if r.slugTaken(c) {
		return apperr.DuplicateSlug(c.Slug)
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, _ string, id string) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeRepo) CountProducts(_ context.Context, _ string, id string) (int, error) {
	return r.products[id], nil
}

type invalidations []string

func (i *invalidations) InvalidateReports(_ context.Context, storeID string) {
	*i = append(*i, storeID)
}

var rc = auth.RequestContext{StoreID: "s1", UserID: "u1", Role: "ADMIN"}

func setup() (*fakeRepo, *invalidations, *categoryUseCase) {
	repo := newFakeRepo()
	inv := &invalidations{}
	return repo, inv, NewCategoryUseCase(repo, inv, logger.NewNop()).(*categoryUseCase)
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	_, _, uc := setup()

	cat, err := uc.CreateCategory(context.Background(), rc, &dto.CreateCategoryInput{Name: "  Bebidas Frías "})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas Frías", cat.Name)
	assert.Equal(t, "bebidas-frias", cat.Slug)
	assert.Equal(t, "s1", cat.StoreID)

	_, err = uc.CreateCategory(context.Background(), rc, &dto.CreateCategoryInput{Name: "bebidas frias"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateSlug))

	other := auth.RequestContext{StoreID: "s2"}
	_, err = uc.CreateCategory(context.Background(), other, &dto.CreateCategoryInput{Name: "Bebidas Frías"})
	assert.NoError(t, err)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	_, _, uc := setup()
	_, err := uc.CreateCategory(context.Background(), rc, &dto.CreateCategoryInput{Name: "  "})
	assert.True(t, errors.Is(err, apperr.ErrNameRequired))
}

func TestUpdateCategoryReslugsAndInvalidates(t *testing.T) {
	_, inv, uc := setup()
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, rc, &dto.CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)

	desc := "Salty things"
	name := "Salty Snacks"
	updated, err := uc.UpdateCategory(ctx, rc, &dto.UpdateCategoryInput{ID: cat.ID, Name: &name, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "salty-snacks", updated.Slug)
	assert.Equal(t, "Salty things", *updated.Description)
	assert.Equal(t, invalidations{"s1"}, *inv)

	_, err = uc.UpdateCategory(ctx, auth.RequestContext{StoreID: "s2"}, &dto.UpdateCategoryInput{ID: cat.ID, Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrCategoryNotFound))
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo, _, uc := setup()
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, rc, &dto.CreateCategoryInput{Name: "Tools"})
	require.NoError(t, err)
	repo.products[cat.ID] = 2

	err = uc.DeleteCategory(ctx, rc, cat.ID)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeCategoryInUse, e.Code)
	assert.Equal(t, 2, e.Fields["Products"])

	repo.products[cat.ID] = 0
	require.NoError(t, uc.DeleteCategory(ctx, rc, cat.ID))
	_, err = uc.GetCategory(ctx, rc, cat.ID)
	assert.True(t, errors.Is(err, apperr.ErrCategoryNotFound))
}
