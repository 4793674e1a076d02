package models

import "database/sql"

// User is the users table row. Optional profile fields are nullable.
type User struct {
	ChatID    string         `db:"chat_id"`
	Username  sql.NullString `db:"username"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	AuditFields
}
