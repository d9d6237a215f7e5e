package kv

import (
	"github.com/asdine/storm/v3"
	"github.com/pkg/errors"
)

const bucket = "medvault"

type strm struct {
	db *storm.DB
}

// Storm returns a Store persisted in the given bbolt file.
func Storm(path string) (Store, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open local storage")
	}

	return &strm{db: db}, nil
}

func (s *strm) Set(key string, value []byte) error {
	return errors.Wrapf(s.db.SetBytes(bucket, key, value), "could not store %s", key)
}

func (s *strm) Get(key string) ([]byte, error) {
	value, err := s.db.GetBytes(bucket, key)
	if err != nil {
		if errors.Cause(err) == storm.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "could not read %s", key)
	}
	return value, nil
}

func (s *strm) Remove(key string) error {
	err := s.db.Delete(bucket, key)
	if err != nil && errors.Cause(err) != storm.ErrNotFound {
		return errors.Wrapf(err, "could not remove %s", key)
	}
	return nil
}

func (s *strm) Close() error {
	return s.db.Close()
}
