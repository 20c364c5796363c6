package models

import (
	"strings"
	"time"
)

// ClassStatus is the approval state of a class.
type ClassStatus string

const (
	ClassPending  ClassStatus = "pending"
	ClassApproved ClassStatus = "approved"
	ClassDenied   ClassStatus = "denied"
)

// Valid reports whether s is a known approval state.
func (s ClassStatus) Valid() bool {
	switch s {
	case ClassPending, ClassApproved, ClassDenied:
		return true
	}
	return false
}

// NormalizeStatus lower-cases s so "Approved" and "approved" compare equal.
func NormalizeStatus(s string) ClassStatus {
	return ClassStatus(strings.ToLower(strings.TrimSpace(s)))
}

// Class is a dance class offered by an instructor.
type Class struct {
	ID              string      `db:"id" json:"_id"`
	Name            string      `db:"name" json:"name"`
	Image           string      `db:"image" json:"image"`
	InstructorName  string      `db:"instructor_name" json:"instructorName"`
	InstructorEmail string      `db:"instructor_email" json:"instructorEmail"`
	Seats           int         `db:"seats" json:"seats"`
	Price           float64     `db:"price" json:"price"`
	Students        int         `db:"students" json:"students"`
	Status          ClassStatus `db:"status" json:"status"`
	Feedback        string      `db:"feedback" json:"feedback,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}

// ClassFilter captures listing criteria. A zero Limit means no cap.
type ClassFilter struct {
	Status          ClassStatus
	InstructorEmail string
	Limit           int
}
