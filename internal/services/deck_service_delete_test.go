package services_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/srsdeck/internal/errors"
)

func TestDeleteDeck_RemovesDeckAndArtifact(t *testing.T) {
	exportDir := t.TempDir()
	svc := newService(t, exportDir)
	ctx := context.Background()

	d, err := svc.ImportDeck(ctx, importRequest("to-delete"))
	require.NoError(t, err)
	require.FileExists(t, d.ExportPath)

	require.NoError(t, svc.DeleteDeck(ctx, d.ID))

	_, err = svc.GetDeck(ctx, d.ID)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	_, statErr := os.Stat(d.ExportPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteDeck_UnknownDeck(t *testing.T) {
	svc := newService(t, t.TempDir())

	err := svc.DeleteDeck(context.Background(), 404)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
