package repository

import (
	"context"
	"strings"

	"database/sql"

	"github.com/iliyamo/access-control/internal/model"
)

// PermissionRepo is the MySQL-backed PermissionStore over the
// 'permissions' table.
type PermissionRepo struct{ DB *sql.DB }

func NewPermissionRepo(db *sql.DB) *PermissionRepo { return &PermissionRepo{DB: db} }

// Create inserts a permission and fills in its generated ID. Returns
// ErrDuplicate when the (role, resource) pair already has a row.
func (r *PermissionRepo) Create(ctx context.Context, p *model.Permission) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO permissions (role_id, resource_id, can_access) VALUES (?,?,?)",
		p.RoleID, p.ResourceID, p.CanAccess)
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
	p.ID = uint64(id)
	return nil
}

// List returns every permission row.
func (r *PermissionRepo) List(ctx context.Context) ([]model.Permission, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,role_id,resource_id,can_access,created_at FROM permissions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Permission
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.RoleID, &p.ResourceID, &p.CanAccess, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a permission row.
func (r *PermissionRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM permissions WHERE id=?", id)
	return err
}

// AnyAllows reports whether at least one of the roles has a
// can_access=true permission on the resource. This is an EXISTS
// check: a single matching row is enough, and conflicting rows for
// the same role cannot occur because (role_id, resource_id) is
// unique.
func (r *PermissionRepo) AnyAllows(ctx context.Context, roleIDs []uint64, resourceID uint64) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}
	placeholders := strings.Repeat("?,", len(roleIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(roleIDs)+1)
	for _, id := range roleIDs {
		args = append(args, id)
	}
	args = append(args, resourceID)

	var exists int
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM permissions WHERE role_id IN ("+placeholders+") AND resource_id=? AND can_access=1)",
		args...).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}
