package service

import "github.com/mdouchement/medvault/internal/model"

// M is an arbitrary map.
type M map[string]any

// Params are the basic fields used in requests.
type Params struct {
	UserAgent string
	Session   *model.Session
}
