package model

import "time"

// LinkedItem is an online purchase link tracked for an entity, with its
// own price confirmation channel.
type LinkedItem struct {
	ID       int64  `json:"id" db:"id"`
	EntityID int64  `json:"entity_id" db:"entity_id"`
	Alias    string `json:"alias" db:"alias" validate:"required,max=100"`
	MallName string `json:"mall_name" db:"mall_name" validate:"max=100"`
	URL      string `json:"url" db:"url" validate:"required,url,max=500"`
	Memo     string `json:"memo" db:"memo" validate:"max=300"`
	Pinned   bool   `json:"pinned" db:"pinned"`

	PriceSyncStatus    SyncStatus `json:"price_sync_status" db:"price_sync_status"`
	PriceSyncAt        *time.Time `json:"price_sync_at" db:"price_sync_at"`
	PriceSyncNonce     string     `json:"-" db:"price_sync_nonce"`
	LastConfirmedAt    *time.Time `json:"last_confirmed_at" db:"last_confirmed_at"`
	LastConfirmedPrice *int64     `json:"last_confirmed_price" db:"last_confirmed_price"`
	LastConfirmedTitle string     `json:"last_confirmed_title" db:"last_confirmed_title"`
	LastConfirmedURL   string     `json:"last_confirmed_url" db:"last_confirmed_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PriceReport is the payload of a price confirmation.
type PriceReport struct {
	Price *int64
	Title string
	URL   string
}
