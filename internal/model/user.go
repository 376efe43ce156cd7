package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  Patronymic   – optional patronymic.
//  IsActive     – whether the account is active; flipped false on
//                 account deletion, never hard-deleted.
//  IsSuperuser  – superusers bypass all permission checks.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
//  LastLogin    – timestamp of the most recent successful login
//                 (nil if the user has never logged in).
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	Patronymic   string     // users.patronymic
	IsActive     bool       // users.is_active
	IsSuperuser  bool       // users.is_superuser
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
	LastLogin    *time.Time // users.last_login (nullable)
}
