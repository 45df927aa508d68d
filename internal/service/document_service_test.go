package service

import (
	"bytes"
	"context"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_Generate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	for _, kind := range []string{"quote", "invoice", "receipt", "Envelope"} {
		t.Run(kind, func(t *testing.T) {
			file, err := f.documents.Generate(ctx, job.ID, kind)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
			assert.Equal(t, "application/pdf", file.ContentType)
		})
	}

	file, err := f.documents.Generate(ctx, job.ID, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "invoice-aab0001.pdf", file.Filename)
	assert.Equal(t, int64(5), f.activityCount(t, job.ID, model.ActionGenerateDocument))
}

func TestDocumentService_GenerateWithUploadedLogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	_, err := f.profiles.UploadLogo(ctx, pngBytes(t))
	require.NoError(t, err)

	file, err := f.documents.Generate(ctx, job.ID, "quote")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestDocumentService_GenerateFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	_, err := f.documents.Generate(ctx, job.ID, "statement")
	assert.ErrorIs(t, err, e.ErrUnknownDocumentKind)

	_, err = f.documents.Generate(ctx, "AAB0404", "quote")
	assert.ErrorIs(t, err, e.ErrNotFound)

	// a job stored without any cost configuration cannot be priced
	require.NoError(t, f.db.Create(&model.Job{ID: "LEG0001", Name: "Legacy", Status: model.JobStatusActive}).Error)
	_, err = f.documents.Generate(ctx, "LEG0001", "invoice")
	assert.ErrorIs(t, err, e.ErrMissingCostSummary)

	envelope, err := f.documents.Generate(ctx, "LEG0001", "envelope")
	require.NoError(t, err, "envelopes need no pricing")
	assert.Equal(t, "envelope-leg0001.pdf", envelope.Filename)
}
