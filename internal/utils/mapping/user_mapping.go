package mapping

import (
	"database/sql"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		ChatID:      d.ChatID,
		Username:    nullString(d.Username),
		FirstName:   nullString(d.FirstName),
		LastName:    nullString(d.LastName),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		ChatID:      m.ChatID,
		Username:    m.Username.String,
		FirstName:   m.FirstName.String,
		LastName:    m.LastName.String,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// nullString maps "" to NULL so that upserts can COALESCE over it.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
