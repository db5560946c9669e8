package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/cfg"
	"github.com/lysyi3m/bill-comb/app/database"
	"github.com/lysyi3m/bill-comb/app/feed"
	"github.com/lysyi3m/bill-comb/app/filter"
	"github.com/lysyi3m/bill-comb/app/tasks"
)

const sessionHeader = "X-Session-ID"

func NewHandler(store Store, sessions *filter.Sessions, feeds tasks.FeedLister,
	reloader Reloader, baseURL string) *Handler {
	return &Handler{
		store:     store,
		generator: feed.NewGenerator(),
		sessions:  sessions,
		feeds:     feeds,
		reloader:  reloader,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"categories": h.sessions.Catalog().Len(),
		"sessions":   h.sessions.Len(),
		"version":    cfg.GetVersion(),
	}

	if feedCount, err := h.store.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetCatalog(c *gin.Context) {
	categories := h.sessions.Catalog().Categories()

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

func (h *Handler) ListFeeds(c *gin.Context) {
	stored, err := h.store.GetFeeds()
	if err != nil {
		slog.Error("Database error", "operation", "get_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	feeds := make([]map[string]interface{}, 0, len(stored))
	for _, f := range stored {
		feedInfo := map[string]interface{}{
			"name":       f.Name,
			"bill_count": f.BillCount,
			"loaded_at":  f.LoadedAt,
			"healthy":    f.Healthy(),
			"updated_at": f.UpdatedAt,
		}
		if f.LastError != "" {
			feedInfo["last_error"] = f.LastError
			feedInfo["last_error_at"] = f.LastErrorAt
		}
		feeds = append(feeds, feedInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")

	view, ok := h.feedView(c, name)
	if !ok {
		return
	}

	c.Header("X-Feed-Bills", strconv.Itoa(len(view.bills)))
	c.JSON(http.StatusOK, gin.H{
		"feed":       name,
		"total":      view.total,
		"count":      len(view.bills),
		"filters":    view.snapshot.Values(),
		"tag_counts": filter.CountTags(view.bills),
		"bills":      view.bills,
	})
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	name := c.Param("name")

	view, ok := h.feedView(c, name)
	if !ok {
		return
	}

	channel := feed.Channel{
		Name:      name,
		Title:     fmt.Sprintf("Bills: %s", name),
		Generator: fmt.Sprintf("Bill Comb %s", cfg.GetVersion()),
	}
	if h.baseURL != "" {
		channel.Link = fmt.Sprintf("%s/feeds/%s", h.baseURL, name)
		channel.SelfLink = fmt.Sprintf("%s/feeds/%s/rss", h.baseURL, name)
	}

	rss, err := h.generator.Run(channel, view.bills)
	if err != nil {
		slog.Error("RSS generation error", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Bills", strconv.Itoa(len(view.bills)))
	c.Header("X-Feed-Name", name)
	if view.feed.LoadedAt != nil {
		c.Header("X-Last-Updated", view.feed.LoadedAt.Format(time.RFC3339))
	}

	c.String(http.StatusOK, rss)
}

func (h *Handler) APIReloadFeed(c *gin.Context) {
	name := c.Param("name")

	names, err := h.feeds.List()
	if err != nil {
		slog.Error("Failed to list feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list feeds"})
		return
	}
	if !slices.Contains(names, name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed file not found"})
		return
	}

	if err := h.reloader.LoadFeed(name); err != nil {
		slog.Error("Error enqueueing load task", "feed", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue load task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Feed reload enqueued",
		"feed":    name,
	})
}

type feedView struct {
	feed     *database.Feed
	total    int
	bills    []bill.Bill
	snapshot filter.Snapshot
}

// feedView loads a feed and applies the caller's session filter. It writes
// the error response itself and reports false when the request is done.
func (h *Handler) feedView(c *gin.Context, name string) (feedView, bool) {
	selector, ok := h.resolveSelector(c)
	if !ok {
		return feedView{}, false
	}

	f, err := h.store.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return feedView{}, false
	}
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return feedView{}, false
	}

	bills, err := h.store.GetBills(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_bills", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return feedView{}, false
	}

	visible, snapshot := applySelector(bills, selector)

	return feedView{
		feed:     f,
		total:    len(bills),
		bills:    visible,
		snapshot: snapshot,
	}, true
}

// applySelector filters bills with a single snapshot of selector and
// returns that snapshot, so the reported filters always match the bills.
func applySelector(bills []bill.Bill, selector filter.Selector) ([]bill.Bill, filter.Snapshot) {
	snapshot := selector.Snapshot()
	return filter.Filter(bills, snapshot), snapshot
}

// resolveSelector returns the session's filter state, or an empty
// snapshot that matches everything when the request names no session.
func (h *Handler) resolveSelector(c *gin.Context) (filter.Selector, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id = c.Query("session")
	}
	if id == "" {
		return filter.Snapshot{}, true
	}

	state, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return state, true
}
