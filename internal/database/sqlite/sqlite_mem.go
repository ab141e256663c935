package sqlite

// NewInMemory returns a migrated database that lives as long as the returned
// cleanup func is not called.
func NewInMemory() (*DB, func(), error) {
	db, cleanup, err := New(":memory:")
	if err != nil {
		return nil, func() {}, err
	}
	return db, cleanup, nil
}
