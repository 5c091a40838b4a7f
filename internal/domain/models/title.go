// internal/domain/models/title.go
package models

import "time"

// Title is a named tag in the registry. Titles have no lifecycle beyond
// existing; they matter only as grouping tags on users and as group board
// membership rules.
type Title struct {
	Name      string    `bson:"name" json:"name"`
	NameCI    string    `bson:"name_ci" json:"name_ci"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
