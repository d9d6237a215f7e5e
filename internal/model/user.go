package model

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	FullName string `msgpack:"full_name"`
	Email    string `msgpack:"email"    storm:"unique"`
	Password string `msgpack:"password,omitempty"`
}
