package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/auth"
)

// ProjectHandler serves mock project data. Its purpose is to
// exercise the permission model end to end: the routes use a dynamic
// resource namer, so the same handler maps to project_list,
// project_create and project_delete depending on the request.
type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler { return &ProjectHandler{} }

// ProjectResolution names the project resources from the request.
func ProjectResolution() auth.Resolution {
	return auth.Resolution{
		Namer: func(req auth.ResourceRequest) string {
			switch {
			case req.Method == "GET" && !req.HasItemRef:
				return "project_list"
			case req.Method == "POST":
				return "project_create"
			case req.Method == "PUT":
				return "project_update"
			case req.Method == "DELETE":
				return "project_delete"
			}
			return "project_list"
		},
		HandlerID: "projecthandler",
	}
}

func (h *ProjectHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"projects": []echo.Map{
			{"id": 1, "name": "Project Alpha", "status": "active"},
			{"id": 2, "name": "Project Beta", "status": "completed"},
		},
	})
}

func (h *ProjectHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "project created successfully",
		"project_id": 3,
	})
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
