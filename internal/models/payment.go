package models

import "time"

// Payment is a completed card transaction.
type Payment struct {
	ID              string    `db:"id" json:"_id"`
	Email           string    `db:"email" json:"email"`
	Amount          float64   `db:"amount" json:"amount"`
	TransactionID   string    `db:"transaction_id" json:"transactionId"`
	SelectedClassID *string   `db:"selected_class_id" json:"selectedClassId,omitempty"`
	ClassID         *string   `db:"class_id" json:"classId,omitempty"`
	ClassName       string    `db:"class_name" json:"className"`
	Date            time.Time `db:"date" json:"date"`
}

// PaymentRecorded is the response of recording a payment: the payment insert and the
// removal of its staged enrollment.
type PaymentRecorded struct {
	InsertResult InsertResult `json:"insertResult"`
	DeleteResult DeleteResult `json:"deleteResult"`
}

// PaymentIntent carries the processor secret the browser needs to confirm the card.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}
