package storage

import "errors"

var ErrNotFound = errors.New("record not found")

// Storage keeps records addressed by sequential ids, starting from 0. Records are never
// modified nor deleted.
type Storage interface {
	// Create stores the data and returns its id.
	Create(data string) (id int, err error)
	// Read returns the data stored by the id or ErrNotFound.
	Read(id int) (data string, err error)
	// Count returns the number of stored records.
	Count() (int, error)
}
