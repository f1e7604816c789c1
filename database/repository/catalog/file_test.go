package catalogRepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tradewinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileCatalogRepo(t *testing.T) {
	path := writeCatalog(t, `
options:
  - {id: honeymoon, kind: purpose, label: Honeymoon}
  - {id: diving, kind: experience, label: Diving}
resorts:
  - {id: b-resort, name: B, tags: [diving]}
  - {id: a-resort, name: A, tags: []}
`)
	repo, err := NewFileCatalogRepo(path)
	require.NoError(t, err)
	ctx := context.Background()

	resorts, err := repo.ListResorts(ctx)
	require.NoError(t, err)
	require.Len(t, resorts, 2)
	assert.Equal(t, "b-resort", resorts[0].ID, "insertion order is kept")

	r, err := repo.GetResort(ctx, "a-resort")
	require.NoError(t, err)
	assert.Equal(t, "A", r.Name)

	_, err = repo.GetResort(ctx, "c-resort")
	assert.ErrorIs(t, err, ErrNotFound)

	opt, err := repo.GetOption(ctx, models.OptionExperience, "diving")
	require.NoError(t, err)
	assert.Equal(t, "Diving", opt.Label)

	_, err = repo.GetOption(ctx, models.OptionPurpose, "diving")
	assert.ErrorIs(t, err, ErrNotFound)

	purposes, err := repo.ListOptions(ctx, models.OptionPurpose)
	require.NoError(t, err)
	assert.Len(t, purposes, 1)
}

func TestLoadCatalogFile_Rejects(t *testing.T) {
	tests := map[string]string{
		"duplicate resort": "resorts:\n  - {id: x, name: X}\n  - {id: x, name: Y}\n",
		"missing id":       "resorts:\n  - {name: X}\n",
		"unknown kind":     "options:\n  - {id: x, kind: mood}\n",
		"not yaml":         "resorts: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalogFile(writeCatalog(t, body))
			assert.Error(t, err)
		})
	}
}

func TestMemoryCatalogRepo_ListIsACopy(t *testing.T) {
	repo := NewMemoryCatalogRepo([]models.Resort{{ID: "a", Name: "A"}}, nil)
	list, err := repo.ListResorts(context.Background())
	require.NoError(t, err)
	list[0].Name = "changed"

	r, err := repo.GetResort(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "A", r.Name)
}

func TestSampleCatalogLoads(t *testing.T) {
	f, err := LoadCatalogFile(filepath.Join("..", "..", "..", "config", "catalog.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, f.Resorts)
	assert.NotEmpty(t, f.Options)
}
