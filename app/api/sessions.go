package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bill-comb/app/catalog"
	"github.com/lysyi3m/bill-comb/app/filter"
	"github.com/lysyi3m/bill-comb/app/metrics"
)

// Pending change events per SSE client before the stream falls behind.
const eventBuffer = 64

func (h *Handler) CreateSession(c *gin.Context) {
	id, state := h.sessions.Create()
	metrics.UpdateSessionsActive(h.sessions.Len())

	slog.Debug("Session created", "session", id)

	c.JSON(http.StatusCreated, gin.H{
		"id":         id,
		"categories": state.Categories(),
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")

	if !h.sessions.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	metrics.UpdateSessionsActive(h.sessions.Len())

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetFilters(c *gin.Context) {
	state, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, filtersResponse(state))
}

func (h *Handler) SetFilter(c *gin.Context) {
	state, ok := h.session(c)
	if !ok {
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	h.applySelection(c, state, req.Tags)
}

func (h *Handler) ClearFilter(c *gin.Context) {
	state, ok := h.session(c)
	if !ok {
		return
	}

	h.applySelection(c, state, nil)
}

// StreamEvents sends a "ready" event once subscribed and then one
// "changed" event per selection change until the client goes away or the
// session is deleted.
func (h *Handler) StreamEvents(c *gin.Context) {
	state, ok := h.session(c)
	if !ok {
		return
	}

	changes := make(chan struct{}, eventBuffer)
	unsubscribe := state.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
			slog.Warn("Dropping change event for slow client", "session", c.Param("id"))
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", filtersResponse(state))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-state.Done():
			c.SSEvent("closed", gin.H{"session": c.Param("id")})
			return false
		case <-changes:
			c.SSEvent("changed", filtersResponse(state))
			return true
		}
	})
}

func (h *Handler) applySelection(c *gin.Context, state *filter.State, tags []string) {
	categoryID := c.Param("category")

	err := state.SetSelection(categoryID, tags)
	metrics.RecordFilterMutation(err == nil)

	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found", "details": err.Error()})
		return
	}
	if err != nil {
		slog.Error("Failed to update selection", "category", categoryID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update selection"})
		return
	}

	c.JSON(http.StatusOK, filtersResponse(state))
}

func (h *Handler) session(c *gin.Context) (*filter.State, bool) {
	state, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return state, true
}

func filtersResponse(state *filter.State) gin.H {
	return gin.H{
		"categories": state.Categories(),
		"selections": state.Snapshot().Values(),
		"empty":      state.IsEmpty(),
	}
}
