package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresBothArguments(t *testing.T) {
	assert.ErrorIs(t, run(context.Background(), nil), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"serviceAccount.json"}), errUsage)
}

func TestRunRejectsMissingCredentialFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "serviceAccount.json")

	err := run(context.Background(), []string{missing, "some-user-uid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service account file not found")
}
