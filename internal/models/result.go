package models

// InsertResult mirrors the metadata returned by a single-document insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the metadata returned by an update or upsert.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult mirrors the metadata returned by a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Updated builds an UpdateResult for a plain update that touched n rows.
func Updated(n int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: n, ModifiedCount: n}
}

// Upserted builds an UpdateResult for an upsert. inserted reports whether the row was new.
func Upserted(id string, inserted bool) UpdateResult {
	if inserted {
		return UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &id}
	}
	return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}
}
