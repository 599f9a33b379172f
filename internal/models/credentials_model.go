package models

import "time"

// Credentials is the single stored Instagram token set. AccessToken is
// kept encrypted at rest and decrypted by the credential store on read.
type Credentials struct {
	AccessToken string    `db:"access_token" json:"access_token"`
	UserID      string    `db:"user_id" json:"user_id"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

func (c *Credentials) Valid(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}
