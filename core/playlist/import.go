package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ShelfFM/logger"
	"ShelfFM/model"

	"github.com/google/uuid"
)

// importPayload is the accepted serialized playlist shape. Each entry is
// either a bare item id or an {itemId, loop} object.
type importPayload struct {
	Name  string            `json:"name"`
	Items []json.RawMessage `json:"items"`
}

// Import validates and normalizes a serialized playlist, assigns a fresh
// id and a fresh shareId, and inserts it into the shared store. Entries
// referencing ids absent from the current catalog are kept — a playlist
// may be imported before its media exists locally — and returned as
// warnings.
func (m *Manager) Import(ctx context.Context, data []byte) (*model.Playlist, []string, error) {
	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if payload.Name == "" {
		return nil, nil, fmt.Errorf("%w: missing name", ErrInvalidImport)
	}
	if payload.Items == nil {
		return nil, nil, fmt.Errorf("%w: missing items array", ErrInvalidImport)
	}

	items := make(model.PlaylistItemList, 0, len(payload.Items))
	for i, raw := range payload.Items {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			items = append(items, model.PlaylistItem{ItemID: id})
			continue
		}
		var entry model.PlaylistItem
		if err := json.Unmarshal(raw, &entry); err != nil || entry.ItemID == "" {
			return nil, nil, fmt.Errorf("%w: item %d is neither an id nor an {itemId, loop} object", ErrInvalidImport, i)
		}
		items = append(items, entry)
	}

	var missing []string
	cat := m.catalogs.Current()
	for _, entry := range items {
		if _, ok := cat.ItemByID(entry.ItemID); !ok {
			missing = append(missing, entry.ItemID)
		}
	}

	now := time.Now()
	pl := &model.Playlist{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		Items:     items,
		Shared:    true,
		ShareID:   uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.shared.Upsert(ctx, pl); err != nil {
		return nil, nil, fmt.Errorf("failed to store imported playlist: %w", err)
	}

	logger.Info("Playlist imported",
		logger.String("playlistId", pl.ID),
		logger.String("name", pl.Name),
		logger.Int("items", len(items)),
		logger.Int("missingRefs", len(missing)))
	return pl, missing, nil
}
