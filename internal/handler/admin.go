package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// AdminHandler exposes the role / resource / permission management
// endpoints. The routes themselves are protected by the permission
// evaluator under the resource names role_management,
// ResourceManagement and PermissionManagement, so only roles granted
// those resources (or superusers) can reach them.
type AdminHandler struct {
	Users       repository.UserStore
	Roles       repository.RoleStore
	Resources   repository.ResourceStore
	Permissions repository.PermissionStore
}

func NewAdminHandler(users repository.UserStore, roles repository.RoleStore, resources repository.ResourceStore, perms repository.PermissionStore) *AdminHandler {
	return &AdminHandler{Users: users, Roles: roles, Resources: resources, Permissions: perms}
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ----- roles -----

type roleReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
type roleResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toRoleResp(r model.Role) roleResp {
	return roleResp{ID: r.ID, Name: r.Name, Description: r.Description}
}

func (h *AdminHandler) ListRoles(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list roles failed"})
	}
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"roles": out})
}

func (h *AdminHandler) CreateRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	r := model.Role{Name: req.Name, Description: req.Description}
	if err := h.Roles.Create(ctx, &r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "role name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create role failed"})
	}
	return c.JSON(http.StatusCreated, toRoleResp(r))
}

func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Roles.Update(ctx, model.Role{ID: id, Name: req.Name, Description: req.Description}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "role name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.JSON(http.StatusOK, roleResp{ID: id, Name: req.Name, Description: req.Description})
}

func (h *AdminHandler) DeleteRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Roles.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- user-role grants -----

type grantReq struct {
	RoleID uint64 `json:"role_id"`
}

// GrantRole links a user to a role. Repeating a grant is a 409; the
// (user, role) pair is unique.
func (h *AdminHandler) GrantRole(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req grantReq
	if err := c.Bind(&req); err != nil || req.RoleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if _, err := h.Roles.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}

	if err := h.Roles.Grant(ctx, userID, req.RoleID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "role already granted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grant role failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "role granted"})
}

// RevokeRole removes a user-role grant; absent grants are a no-op.
func (h *AdminHandler) RevokeRole(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	roleID, err := pathID(c, "roleID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Roles.Revoke(ctx, userID, roleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- resources -----

type resourceReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Method      string `json:"method"`
}
type resourceResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Method      string `json:"method"`
}

func (h *AdminHandler) ListResources(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	resources, err := h.Resources.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list resources failed"})
	}
	out := make([]resourceResp, 0, len(resources))
	for _, r := range resources {
		out = append(out, resourceResp{ID: r.ID, Name: r.Name, Description: r.Description, Method: r.Method})
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": out})
}

func (h *AdminHandler) CreateResource(c echo.Context) error {
	var req resourceReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Method == "" {
		req.Method = model.MethodGet
	}
	if !model.ValidMethod(req.Method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid method"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	r := model.Resource{Name: req.Name, Description: req.Description, Method: req.Method}
	if err := h.Resources.Create(ctx, &r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "resource already exists for this method"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create resource failed"})
	}
	return c.JSON(http.StatusCreated, resourceResp{ID: r.ID, Name: r.Name, Description: r.Description, Method: r.Method})
}

func (h *AdminHandler) DeleteResource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Resources.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete resource failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- permissions -----

type permissionReq struct {
	RoleID     uint64 `json:"role_id"`
	ResourceID uint64 `json:"resource_id"`
	CanAccess  *bool  `json:"can_access"`
}
type permissionResp struct {
	ID         uint64 `json:"id"`
	RoleID     uint64 `json:"role_id"`
	ResourceID uint64 `json:"resource_id"`
	CanAccess  bool   `json:"can_access"`
}

func (h *AdminHandler) ListPermissions(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	perms, err := h.Permissions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list permissions failed"})
	}
	out := make([]permissionResp, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResp{ID: p.ID, RoleID: p.RoleID, ResourceID: p.ResourceID, CanAccess: p.CanAccess})
	}
	return c.JSON(http.StatusOK, echo.Map{"permissions": out})
}

func (h *AdminHandler) CreatePermission(c echo.Context) error {
	var req permissionReq
	if err := c.Bind(&req); err != nil || req.RoleID == 0 || req.ResourceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id and resource_id required"})
	}
	canAccess := true
	if req.CanAccess != nil {
		canAccess = *req.CanAccess
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if _, err := h.Roles.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}
	if _, err := h.Resources.GetByID(ctx, req.ResourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load resource failed"})
	}

	p := model.Permission{RoleID: req.RoleID, ResourceID: req.ResourceID, CanAccess: canAccess}
	if err := h.Permissions.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "permission already exists for this role and resource"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create permission failed"})
	}
	return c.JSON(http.StatusCreated, permissionResp{ID: p.ID, RoleID: p.RoleID, ResourceID: p.ResourceID, CanAccess: p.CanAccess})
}

func (h *AdminHandler) DeletePermission(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Permissions.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete permission failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
