package domain

import "time"

// Translation is one target-language rendering of an item. Translations are
// additive: rows are only ever inserted or overwritten, never deleted while
// the item exists.
type Translation struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	LangCode  string    `json:"lang_code"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
