package models

import "time"

// ClassUpdate records the latest moderation decision taken on a class.
type ClassUpdate struct {
	ID        string      `db:"id" json:"_id"`
	ClassID   string      `db:"class_id" json:"classId"`
	ClassName string      `db:"class_name" json:"className"`
	Status    ClassStatus `db:"status" json:"status"`
	Feedback  string      `db:"feedback" json:"feedback"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
