package playlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportAcceptsMixedEntryShapes(t *testing.T) {
	m, _, shared, _ := newTestManager(t)

	payload := []byte(`{
		"name": "Imported",
		"items": [
			"i1",
			{"itemId": "i2", "loop": true}
		]
	}`)

	pl, missing, err := m.Import(context.Background(), payload)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "Imported", pl.Name)
	assert.NotEmpty(t, pl.ID)
	assert.NotEmpty(t, pl.ShareID)
	assert.True(t, pl.Shared)

	require.Len(t, pl.Items, 2)
	assert.Equal(t, "i1", pl.Items[0].ItemID)
	assert.False(t, pl.Items[0].Loop)
	assert.Equal(t, "i2", pl.Items[1].ItemID)
	assert.True(t, pl.Items[1].Loop)

	_, ok := shared.playlists[pl.ID]
	assert.True(t, ok, "imports land in the shared store")
}

func TestImportKeepsMissingReferences(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	payload := []byte(`{"name": "p", "items": ["i1", "not-in-catalog", "also-gone"]}`)
	pl, missing, err := m.Import(context.Background(), payload)
	require.NoError(t, err)

	assert.Len(t, pl.Items, 3, "unknown references are kept, not dropped")
	assert.Equal(t, []string{"not-in-catalog", "also-gone"}, missing)
}

func TestImportAllowsEmptyItems(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	pl, missing, err := m.Import(context.Background(), []byte(`{"name": "p", "items": []}`))
	require.NoError(t, err)
	assert.Empty(t, pl.Items)
	assert.Empty(t, missing)
}

func TestImportRejectsMalformedPayloads(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	cases := map[string]string{
		"not json":        `{{`,
		"missing name":    `{"items": []}`,
		"missing items":   `{"name": "p"}`,
		"bad entry shape": `{"name": "p", "items": [42]}`,
		"entry no itemId": `{"name": "p", "items": [{"loop": true}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := m.Import(ctx, []byte(payload))
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}

func TestImportAssignsFreshIdentity(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	payload := []byte(`{"name": "p", "items": ["i1"]}`)
	first, _, err := m.Import(ctx, payload)
	require.NoError(t, err)
	second, _, err := m.Import(ctx, payload)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "each import gets its own id")
	assert.NotEqual(t, first.ShareID, second.ShareID)
}
