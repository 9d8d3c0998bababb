package models

import "time"

// Image is a published visual asset
// Maps to: images table
type Image struct {
	ID string `db:"id" json:"id"`

	// Location key inside the object store, resolved to a public URL on output
	StoragePath string `db:"storage_path" json:"storage_path"`

	Alt string `db:"alt" json:"alt"`

	// Source dimensions may be unknown
	Width  *int `db:"width" json:"width"`
	Height *int `db:"height" json:"height"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Lower sorts first; nil sorts last
	Position *int `db:"position" json:"position"`
}

// ImageView is the public shape of an image returned by the API
type ImageView struct {
	ID          string    `json:"id"`
	StoragePath string    `json:"storage_path"`
	Alt         string    `json:"alt"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
	Position    *int      `json:"position"`
	URL         string    `json:"url"`
}
