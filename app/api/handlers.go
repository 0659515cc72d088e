package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mk1shan/portfolio/app/cfg"
	"github.com/mk1shan/portfolio/app/database"
	"github.com/mk1shan/portfolio/app/feed"
)

const (
	defaultRenderWait   = 1500 * time.Millisecond
	defaultAPIWait      = 20 * time.Second
	defaultRefreshAfter = 2 * time.Second
	defaultFetchLimit   = 50
	maxFetchLimit       = 500
)

// NewHandler wires page and API handlers. fetchRepo may be nil when the fetch log is disabled.
func NewHandler(profiles ProfileProvider, registry *feed.Registry, dispatcher feed.Dispatcher,
	fetchRepo database.FetchRepository, opts HandlerOptions) *Handler {
	if opts.RenderWait <= 0 {
		opts.RenderWait = defaultRenderWait
	}
	if opts.APIWait <= 0 {
		opts.APIWait = defaultAPIWait
	}
	if opts.RefreshAfter <= 0 {
		opts.RefreshAfter = defaultRefreshAfter
	}

	return &Handler{
		profiles:   profiles,
		registry:   registry,
		dispatcher: dispatcher,
		fetchRepo:  fetchRepo,
		opts:       opts,
		startedAt:  time.Now(),
	}
}

func (h *Handler) page(title string, data gin.H) gin.H {
	page := gin.H{
		"Title":   title,
		"Profile": h.profiles.Get(),
		"Year":    time.Now().Year(),
	}
	for k, v := range data {
		page[k] = v
	}
	return page
}

func (h *Handler) GetIndex(c *gin.Context) {
	p := h.profiles.Get()
	if p == nil {
		slog.Error("Profile not loaded")
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.HTML(http.StatusOK, "index.tmpl", h.page(p.Name, gin.H{
		"Skills":   p.AllSkills(),
		"Featured": p.FeaturedProjects(),
	}))
}

// GetWriting opens a fresh view, which starts exactly one fetch, and renders
// whatever state the view reaches within the render wait.
func (h *Handler) GetWriting(c *gin.Context) {
	view := h.registry.Open()

	// The view outlives this request while loading; the registry owns its teardown.
	if err := view.Activate(context.Background(), h.dispatcher); err != nil {
		slog.Error("Failed to activate view", "view", view.ID(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	h.renderView(c, view)
}

// GetWritingView re-renders an open view without starting another fetch.
func (h *Handler) GetWritingView(c *gin.Context) {
	id := c.Param("view")

	view, ok := h.registry.Get(id)
	if !ok {
		slog.Debug("View not found, opening a new one", "view", id)
		c.Redirect(http.StatusFound, "/writing")
		return
	}

	h.renderView(c, view)
}

func (h *Handler) renderView(c *gin.Context, view *feed.View) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RenderWait)
	defer cancel()

	snap, _ := view.Wait(ctx)
	if snap.Closed && snap.Phase == feed.PhaseLoading {
		c.Redirect(http.StatusFound, "/writing")
		return
	}

	data := gin.H{
		"Phase":       string(snap.Phase),
		"ViewID":      snap.ID,
		"FeedLabel":   h.opts.FeedLabel,
		"FallbackURL": h.opts.FeedHomeURL,
	}

	switch snap.Phase {
	case feed.PhaseLoading:
		data["RefreshURL"] = "/writing/" + snap.ID
		data["RefreshAfter"] = int(h.opts.RefreshAfter.Seconds())
		c.Header("Cache-Control", "no-store")
	case feed.PhaseError:
		data["ErrorMessage"] = snap.Err.Message
	case feed.PhaseLoaded:
		data["Cards"] = feed.BuildCards(snap.Entries, snap.Previews)
	}

	c.HTML(http.StatusOK, "writing.tmpl", h.page("Writing", data))
}

// APIGetArticles runs a view scoped to the request and answers once it resolves.
func (h *Handler) APIGetArticles(c *gin.Context) {
	view := h.registry.Open()
	defer h.registry.Remove(view.ID())

	if err := view.Activate(c.Request.Context(), h.dispatcher); err != nil {
		slog.Error("Failed to activate view", "view", view.ID(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to start fetch"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.APIWait)
	defer cancel()

	snap, resolved := view.Wait(ctx)
	if !resolved {
		if c.Request.Context().Err() != nil {
			slog.Debug("Client went away before the feed resolved", "view", view.ID())
			return
		}
		_, connect := feed.Messages(h.opts.FeedLabel)
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"status":       "error",
			"kind":         feed.KindTransport,
			"message":      connect,
			"fallback_url": h.opts.FeedHomeURL,
		})
		return
	}

	if snap.Phase == feed.PhaseError {
		slog.Warn("Feed fetch failed", "view", view.ID(), "kind", snap.Err.Kind, "error", snap.Err)
		c.JSON(http.StatusBadGateway, gin.H{
			"status":       "error",
			"kind":         snap.Err.Kind,
			"message":      snap.Err.Message,
			"fallback_url": h.opts.FeedHomeURL,
		})
		return
	}

	cards := feed.BuildCards(snap.Entries, snap.Previews)
	descriptions := make(map[string]string, len(snap.Entries))
	for _, entry := range snap.Entries {
		if _, ok := descriptions[entry.GUID]; !ok {
			descriptions[entry.GUID] = entry.Description
		}
	}

	items := make([]writingItem, 0, len(cards))
	for _, card := range cards {
		items = append(items, writingItem{
			Card:        card,
			ContentHTML: feed.SanitizeHTML(descriptions[card.GUID]),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"items":  items,
	})
}

func (h *Handler) APIGetProfile(c *gin.Context) {
	p := h.profiles.Get()
	if p == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Profile not loaded"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"version":    cfg.GetVersion(),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"open_views": h.registry.Len(),
	}

	if h.fetchRepo != nil {
		if stats, err := h.fetchRepo.GetFetchStats(time.Now().Add(-24 * time.Hour)); err == nil {
			health["fetches_24h"] = stats.Total
			if stats.LastFetchedAt != nil {
				health["last_fetch_at"] = stats.LastFetchedAt.In(time.Local).Format(time.RFC3339)
			}
		} else {
			slog.Error("Database error", "operation", "get_fetch_stats", "error", err)
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListFetches(c *gin.Context) {
	if h.fetchRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fetch log disabled"})
		return
	}

	limit := defaultFetchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxFetchLimit)
	}

	since := time.Now().Add(-24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be a positive duration (e.g., 24h)"})
			return
		}
		since = time.Now().Add(-d)
	}

	records, err := h.fetchRepo.ListRecentFetches(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_fetches", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats, err := h.fetchRepo.GetFetchStats(since)
	if err != nil {
		slog.Error("Database error", "operation", "get_fetch_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	fetches := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		fetches = append(fetches, map[string]interface{}{
			"id":         record.ID,
			"view_id":    record.ViewID,
			"source":     record.Source,
			"outcome":    record.Outcome,
			"entries":    record.Entries,
			"attempts":   record.Attempts,
			"duration":   record.Duration.String(),
			"error":      record.Error,
			"fetched_at": record.FetchedAt.In(time.Local).Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"fetches": fetches,
		"total":   len(fetches),
		"stats": map[string]interface{}{
			"total":        stats.Total,
			"by_outcome":   stats.ByOutcome,
			"avg_duration": stats.AvgDuration.String(),
		},
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.tmpl", h.page("Not found", nil))
}
