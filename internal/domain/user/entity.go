package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        string    // ID is the server-generated identifier, immutable once assigned
	Name      string    // Name is the full name of the user
	Email     string    // Email is the unique email address of the user
	CreatedAt time.Time // CreatedAt is set by the datastore on insert
	UpdatedAt time.Time // UpdatedAt is refreshed on every update
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Name  *string
	Email *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil
}

// Fields returns the column/value pairs the patch sets.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	return fields
}
