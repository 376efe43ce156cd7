// Package router defines how HTTP routes are registered for the API
// and which authentication/authorization middleware guards each one.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/auth"
	"github.com/iliyamo/access-control/internal/handler"
	"github.com/iliyamo/access-control/internal/middleware"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Projects  *handler.ProjectHandler
	Tasks     *handler.TaskHandler
	Authenticator   *auth.Authenticator
	Evaluator *auth.Evaluator
	// LoginLimit guards the login endpoint. Pass-through when rate
	// limiting is disabled.
	LoginLimit echo.MiddlewareFunc
}

// RegisterRoutes wires every route. The health check, registration
// and login are open: they are exempt from authentication and never
// reach the permission evaluator. Everything else runs behind the
// Authenticate middleware, which attaches a principal (possibly
// anonymous) to the request; protected groups then either require an
// identity or a table permission on top of it.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Open endpoints: no principal needed.
	open := e.Group("/v1/auth")
	open.POST("/register", d.Auth.Register)
	open.POST("/login", d.Auth.Login, d.LoginLimit)

	// Every other route sees the authenticated principal.
	authn := middleware.Authenticate(d.Authenticator)

	// Account endpoints: identity required, no table permission.
	account := e.Group("/v1/auth", authn, middleware.RequireAuth())
	account.POST("/logout", d.Auth.Logout)
	account.GET("/profile", d.Auth.Profile)
	account.PUT("/profile", d.Auth.UpdateProfile)
	account.DELETE("/account", d.Auth.DeleteAccount)

	registerAdmin(e, d, authn)
	registerDemo(e, d, authn)
}

// registerAdmin wires the role/resource/permission management
// routes. Each group carries an explicit resource name, the highest
// priority resolution strategy.
func registerAdmin(e *echo.Echo, d Deps, authn echo.MiddlewareFunc) {
	roles := e.Group("/v1/admin/roles", authn,
		middleware.Authorize(d.Evaluator, auth.Resolution{Explicit: "role_management"}))
	roles.GET("", d.Admin.ListRoles)
	roles.POST("", d.Admin.CreateRole)
	roles.PUT("/:id", d.Admin.UpdateRole)
	roles.DELETE("/:id", d.Admin.DeleteRole)

	// User-role grants live under the same resource name as roles.
	grants := e.Group("/v1/admin/users", authn,
		middleware.Authorize(d.Evaluator, auth.Resolution{Explicit: "role_management"}))
	grants.POST("/:id/roles", d.Admin.GrantRole)
	grants.DELETE("/:id/roles/:roleID", d.Admin.RevokeRole)

	resources := e.Group("/v1/admin/resources", authn,
		middleware.Authorize(d.Evaluator, auth.Resolution{Explicit: "ResourceManagement"}))
	resources.GET("", d.Admin.ListResources)
	resources.POST("", d.Admin.CreateResource)
	resources.DELETE("/:id", d.Admin.DeleteResource)

	perms := e.Group("/v1/admin/permissions", authn,
		middleware.Authorize(d.Evaluator, auth.Resolution{Explicit: "PermissionManagement"}))
	perms.GET("", d.Admin.ListPermissions)
	perms.POST("", d.Admin.CreatePermission)
	perms.DELETE("/:id", d.Admin.DeletePermission)
}

// registerDemo wires the mock business endpoints that exercise the
// dynamic resource namers (project_list, project_create, ...).
func registerDemo(e *echo.Echo, d Deps, authn echo.MiddlewareFunc) {
	projects := e.Group("/v1/projects", authn,
		middleware.Authorize(d.Evaluator, handler.ProjectResolution()))
	projects.GET("", d.Projects.List)
	projects.POST("", d.Projects.Create)
	projects.DELETE("/:id", d.Projects.Delete)

	tasks := e.Group("/v1/tasks", authn,
		middleware.Authorize(d.Evaluator, handler.TaskResolution()))
	tasks.GET("", d.Tasks.List)
	tasks.POST("", d.Tasks.Create)
}
