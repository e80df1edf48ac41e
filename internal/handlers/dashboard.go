package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdept/taskdept/internal/dashboard"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/middleware"
	"github.com/taskdept/taskdept/internal/services"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	taskService *services.TaskService
	// allowFallback enables the degraded sample summary when the store is
	// unreachable. The fallback is always marked Degraded in the payload.
	allowFallback bool
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(taskService *services.TaskService, allowFallback bool) *DashboardHandler {
	return &DashboardHandler{
		taskService:   taskService,
		allowFallback: allowFallback,
	}
}

// GetDashboard summarizes the visible task set for the current user.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	summary, err := h.taskService.DashboardFor(userID)
	if err != nil {
		if h.allowFallback && apierrors.IsKind(err, apierrors.KindStoreUnavailable) {
			log.Printf("dashboard: store unavailable, serving degraded summary")
			c.JSON(http.StatusOK, dashboard.Sample())
			return
		}
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
