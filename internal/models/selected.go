package models

import "time"

// Selected is a staged enrollment waiting for payment. Name holds the class name and
// Email the student's address; the pair is unique.
type Selected struct {
	ID             string    `db:"id" json:"_id"`
	ClassID        *string   `db:"class_id" json:"classId,omitempty"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Price          float64   `db:"price" json:"price"`
	Image          string    `db:"image" json:"image"`
	InstructorName string    `db:"instructor_name" json:"instructorName"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
