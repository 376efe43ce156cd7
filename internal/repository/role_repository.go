package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/access-control/internal/model"
)

// RoleRepo is the MySQL-backed RoleStore over the 'roles' and
// 'user_roles' tables.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Create inserts a role and fills in its generated ID.
func (r *RoleRepo) Create(ctx context.Context, role *model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO roles (name, description) VALUES (?,?)",
		role.Name, role.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	role.ID = uint64(id)
	return nil
}

// GetByID fetches a role by id.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM roles WHERE id=? LIMIT 1",
		id).Scan(&role.ID, &role.Name, &role.Description)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}

// GetByName fetches a role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM roles WHERE name=? LIMIT 1",
		name).Scan(&role.ID, &role.Name, &role.Description)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}

// List returns every role ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description FROM roles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Update rewrites a role's name and description.
func (r *RoleRepo) Update(ctx context.Context, role model.Role) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE roles SET name=?, description=? WHERE id=?",
		role.Name, role.Description, role.ID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a role. Grants and permissions referencing it are
// removed by foreign-key cascade.
func (r *RoleRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM roles WHERE id=?", id)
	return err
}

// ListForUser returns the roles held by a user via user_roles.
func (r *RoleRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.name, r.description
		 FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Grant links a user to a role. A repeated grant returns
// ErrDuplicate because (user_id, role_id) is unique.
func (r *RoleRepo) Grant(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)",
		userID, roleID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Revoke removes a user-role grant; absent grants are a no-op.
func (r *RoleRepo) Revoke(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_roles WHERE user_id=? AND role_id=?",
		userID, roleID)
	return err
}
