package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/utils"
)

type RunCheckRequest struct {
	MonitorID uint `json:"monitor_id"`
}

// RunCheck handles POST /api/check. With a monitor_id it runs a single
// owner-verified check; without one it sweeps every monitor in the
// system sequentially, which is how the external cron trigger drives
// the poller.
func (h *Handler) RunCheck(ctx *gin.Context) {
	var req RunCheckRequest

	// An empty body is a valid bulk-sweep request.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.MonitorID == 0 {
		h.runSweep(ctx)
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	monitor, err := h.store.GetMonitor(req.MonitorID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Monitor not found"})
		} else {
			log.Printf("Failed to fetch monitor %d: %v", req.MonitorID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if monitor.UserID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	result, err := h.checker.CheckMonitor(ctx.Request.Context(), *monitor)

	if err != nil {
		log.Printf("Check failed for monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Check failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func (h *Handler) runSweep(ctx *gin.Context) {
	results, err := h.checker.CheckAll(ctx.Request.Context())

	if err != nil {
		log.Printf("Bulk check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"checked": len(results),
		"results": results,
	})
}
