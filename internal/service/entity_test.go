package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/service"
	"owners-health-api/internal/testutil"
)

func Test_Create_Trims_Fields_And_Mirrors_Link_Flags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := testutil.NewTestStore(t)
	svc := service.NewEntityService(store, logging.Discard())

	e, err := svc.Create(ctx, operator, &model.Entity{
		Name:      "  Corner Bakery ",
		Category:  "Food/Cafe",
		Address:   " 12 Main St ",
		ReviewURL: "https://example.com/reviews",
	})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.Equal(t, "Corner Bakery", e.Name)
	assert.Equal(t, "12 Main St", e.Address)

	ck, err := svc.Checklist(ctx, operator, e.ID)
	require.NoError(t, err)
	assert.True(t, ck.HasReviewURL)
	assert.False(t, ck.HasInstaURL)
	assert.False(t, ck.HasKeywords)
}

func Test_Create_Rejects_Missing_Name(t *testing.T) {
	t.Parallel()

	svc := service.NewEntityService(testutil.NewTestStore(t), logging.Discard())

	_, err := svc.Create(context.Background(), operator, &model.Entity{Name: "   ", Category: "Other"})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "name", verrs[0].Field())
}

func Test_Update_Clears_Link_Flag_When_Url_Removed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := testutil.NewTestStore(t)
	svc := service.NewEntityService(store, logging.Discard())

	e, err := svc.Create(ctx, operator, &model.Entity{
		Name: "Studio", Category: "Beauty", InstaURL: "https://instagram.com/studio",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, operator, e.ID, &model.Entity{Name: "Studio", Category: "Beauty"})
	require.NoError(t, err)

	ck, err := store.GetOrCreateChecklist(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, ck.HasInstaURL)
}

func Test_Entity_Is_Invisible_To_Other_Operators(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, e := seeded(t)
	svc := service.NewEntityService(store, logging.Discard())

	_, err := svc.Get(ctx, "someone-else", e.ID)
	assert.True(t, service.IsNotFound(err))

	_, err = svc.Checklist(ctx, "someone-else", e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Get(ctx, operator, e.ID)
	assert.NoError(t, err)
}

func Test_TouchActivity_Rejects_Unknown_Activity(t *testing.T) {
	t.Parallel()

	store, e := seeded(t)
	svc := service.NewEntityService(store, logging.Discard())

	err := svc.TouchActivity(context.Background(), operator, e.ID, model.Activity("dance"), testNow)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func Test_TouchActivity_Stamps_Timestamp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, e := seeded(t)
	svc := service.NewEntityService(store, logging.Discard())

	require.NoError(t, svc.TouchActivity(ctx, operator, e.ID, model.ActivityPlaceNews, testNow))

	ck, err := svc.Checklist(ctx, operator, e.ID)
	require.NoError(t, err)
	require.NotNil(t, ck.LastPlaceNewsAt)
	assert.True(t, ck.LastPlaceNewsAt.Equal(testNow))
}

func Test_SetFlags_Rejects_Unknown_Flag(t *testing.T) {
	t.Parallel()

	store, e := seeded(t)
	svc := service.NewEntityService(store, logging.Discard())

	err := svc.SetFlags(context.Background(), operator, e.ID, map[model.Flag]bool{"has_unicorn": true})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
