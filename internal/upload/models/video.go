package models

import "time"

// Video is the catalog entry an upload belongs to. It is created by the
// admin workflow; the upload lifecycle only ever flips IsPublished back to
// false when a finished asset is re-uploaded.
type Video struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	IsPublished bool      `db:"is_published"`
	NumLikes    int       `db:"num_likes"`
	NumViews    int       `db:"num_views"`
	CreatedAt   time.Time `db:"created_at"`
}
