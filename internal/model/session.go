package model

import (
	"time"
)

// A Session represents a database record.
// The access token is opaque and is only valid until ExpireAt.
type Session struct {
	Base `msgpack:",inline" storm:"inline"`

	ExpireAt    time.Time `msgpack:"expire_at"`
	UserID      string    `msgpack:"user_id"      storm:"index"`
	UserAgent   string    `msgpack:"user_agent"`
	AccessToken string    `msgpack:"access_token" storm:"unique"`
}

// Expired returns true if the session is expired at the given time.
func (s *Session) Expired(t time.Time) bool {
	return s.ExpireAt.Before(t)
}
