package domain

// User is a chat user known to the bot. ChatID is the stable identifier used
// both as the subscription owner and as the messaging recipient.
type User struct {
	ChatID    string `json:"chatID"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	AuditFields
}

// MergeProfile returns u refreshed with the non-empty fields of incoming.
// A known field is never overwritten with an empty value.
func (u User) MergeProfile(incoming User) User {
	merged := u
	if incoming.Username != "" {
		merged.Username = incoming.Username
	}
	if incoming.FirstName != "" {
		merged.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		merged.LastName = incoming.LastName
	}
	return merged
}
