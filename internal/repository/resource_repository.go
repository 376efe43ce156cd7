package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/access-control/internal/model"
)

// ResourceRepo is the MySQL-backed ResourceStore over the
// 'resources' table.
type ResourceRepo struct{ DB *sql.DB }

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{DB: db} }

// Create inserts a resource and fills in its generated ID. Returns
// ErrDuplicate when the (name, method) pair already exists.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	out, err := r.DB.ExecContext(ctx,
		"INSERT INTO resources (name, description, method) VALUES (?,?,?)",
		res.Name, res.Description, res.Method)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID fetches a resource by id.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	var res model.Resource
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,method FROM resources WHERE id=? LIMIT 1",
		id).Scan(&res.ID, &res.Name, &res.Description, &res.Method)
	if err == sql.ErrNoRows {
		return model.Resource{}, ErrNotFound
	}
	return res, err
}

// GetByNameMethod fetches the resource matching the (name, method)
// pair exactly. The method is looked up verbatim; '*' rows are not
// consulted as a fallback.
func (r *ResourceRepo) GetByNameMethod(ctx context.Context, name, method string) (model.Resource, error) {
	var res model.Resource
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,method FROM resources WHERE name=? AND method=? LIMIT 1",
		name, method).Scan(&res.ID, &res.Name, &res.Description, &res.Method)
	if err == sql.ErrNoRows {
		return model.Resource{}, ErrNotFound
	}
	return res, err
}

// List returns every resource ordered by name then method.
func (r *ResourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,method FROM resources ORDER BY name, method")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Description, &res.Method); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes a resource; permissions referencing it go with it
// by foreign-key cascade.
func (r *ResourceRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM resources WHERE id=?", id)
	return err
}
