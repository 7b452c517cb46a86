package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Organizers manage events and trigger assignment
// runs; exhibitors browse stands and check compatibility for their
// company.  The json tags are omitted because these structs are
// used internally by the repository layer; handlers define their
// own response types.
//
// Fields:
//  ID           - primary key identifier of the user.
//  Email        - unique email address.
//  PasswordHash - bcrypt hashed password.
//  Role         - role name (ORGANIZER or EXHIBITOR).
//  CompanyID    - company the user belongs to (null for organizers).
//  IsActive     - whether the account is active.
//  CreatedAt    - timestamp of creation.
//  UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CompanyID    *uint64   // users.company_id (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
