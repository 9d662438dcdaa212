package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// PlaylistItem is one entry of a playlist. ItemID may dangle if the
// catalog changes; that makes the entry unplayable, not invalid.
// Ordering is significant and duplicate item ids are permitted.
type PlaylistItem struct {
	ItemID string `json:"itemId"`
	Loop   bool   `json:"loop"` // repeat this single entry before advancing
}

// PlaylistItemList stores the items of a playlist as a JSON column when
// persisted through GORM.
type PlaylistItemList []PlaylistItem

// Scan implements sql.Scanner.
func (l *PlaylistItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*l = nil
		return nil
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*l = nil
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer.
func (l PlaylistItemList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Playlist is an ordered list of item references. A playlist is owned by
// exactly one store at a time: the local private collection or the shared
// table. Moving between the two is a migration, never a copy. ShareID is
// assigned on first share and preserved on unshare so a later re-share
// reuses it.
type Playlist struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	Name        string           `json:"name" gorm:"size:200;not null"`
	Items       PlaylistItemList `json:"items" gorm:"type:json"`
	Shared      bool             `json:"shared" gorm:"-"` // ownership follows the store, not a column
	ShareID     string           `json:"shareId,omitempty" gorm:"column:share_id;size:36;index"`
	OwnerID     string           `json:"ownerId,omitempty" gorm:"column:owner_id;size:64"`
	CoverItemID string           `json:"coverItemId,omitempty" gorm:"column:cover_item_id;size:64"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TableName names the shared store table.
func (Playlist) TableName() string {
	return "playlists"
}

// Clone returns a deep copy of the playlist.
func (p *Playlist) Clone() *Playlist {
	cp := *p
	cp.Items = make(PlaylistItemList, len(p.Items))
	copy(cp.Items, p.Items)
	return &cp
}

// ContainsItem reports whether any entry references the given item id.
func (p *Playlist) ContainsItem(itemID string) bool {
	for _, it := range p.Items {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}
