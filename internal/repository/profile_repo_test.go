package repository

import (
	"context"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
	"blinds-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_GetSave(t *testing.T) {
	repo := NewProfileRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, e.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &model.CompanyProfile{Name: "All About Blinds", Logo: []byte{0x89, 'P', 'N', 'G'}, LogoType: "image/png"}))
	require.NoError(t, repo.Save(ctx, &model.CompanyProfile{ID: 42, Name: "Renamed"}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(model.CompanyProfileID), got.ID, "there is only ever one profile row")
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.HasLogo())
}

func TestActivityRepository_ListByJob(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for _, action := range []string{model.ActionCreateJob, model.ActionAddBlind, model.ActionUpdateCosts} {
		require.NoError(t, repo.Log(ctx, &model.ActivityLog{JobID: "AAB0001", Action: action}))
	}
	require.NoError(t, repo.Log(ctx, &model.ActivityLog{JobID: "AAB0002", Action: model.ActionCreateJob}))

	logs, total, err := repo.ListByJob(ctx, "AAB0001", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, "AAB0001", l.JobID)
	}
}
