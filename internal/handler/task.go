package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/auth"
)

// TaskHandler serves mock task data behind the task_* resources,
// mirroring ProjectHandler.
type TaskHandler struct{}

func NewTaskHandler() *TaskHandler { return &TaskHandler{} }

// TaskResolution names the task resources from the request.
func TaskResolution() auth.Resolution {
	return auth.Resolution{
		Namer: func(req auth.ResourceRequest) string {
			switch {
			case req.Method == "GET" && !req.HasItemRef:
				return "task_list"
			case req.Method == "POST":
				return "task_create"
			case req.Method == "PUT":
				return "task_update"
			case req.Method == "DELETE":
				return "task_delete"
			}
			return "task_list"
		},
		HandlerID: "taskhandler",
	}
}

func (h *TaskHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"tasks": []echo.Map{
			{"id": 1, "title": "Design database", "status": "done"},
			{"id": 2, "title": "Implement API", "status": "in_progress"},
		},
	})
}

func (h *TaskHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "task created successfully",
		"task_id": 3,
	})
}
