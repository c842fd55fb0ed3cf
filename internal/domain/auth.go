package domain

import "time"

// Identity is the verified caller decoded from a bearer token.
type Identity struct {
	ID    string
	Email string
}

// Token carries issued token metadata.
type Token struct {
	Value     string
	Subject   Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
