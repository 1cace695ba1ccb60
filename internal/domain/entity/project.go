package entity

import "time"

type Project struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"userId"`
	Name           string    `db:"name" json:"name"`
	CollectionName string    `db:"collection_name" json:"collectionName"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
