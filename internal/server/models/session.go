package models

import "time"

// Session is the server-side state of one login. Shift is empty until the
// account picks one.
type Session struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	AccountName string    `json:"account_name"`
	IsAdmin     bool      `json:"is_admin"`
	Shift       Shift     `json:"shift,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
