package domain

import "time"

// User is referenced by the relay but owned by the account store.
// The core only ever checks that an id exists.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
