package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	Admin     bool      `json:"admin"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Mention renders the form the bot addresses the user by.
func (u User) Mention() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return ""
}
