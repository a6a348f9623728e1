package reviews

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reviewhub/internal/auth"
	"reviewhub/internal/likes"
	"reviewhub/internal/live"
	"reviewhub/internal/social"
	"reviewhub/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Users  *auth.Repo
	Social *social.Repo
	Likes  *likes.Repo
	Hub    *live.Hub
}

func NewHandler(repo *Repo, users *auth.Repo, socialRepo *social.Repo, likeRepo *likes.Repo, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Users: users, Social: socialRepo, Likes: likeRepo, Hub: hub}
}

// RegisterPublicRoutes expects the group to carry auth.OptionalMiddleware so
// detail reads can enrich for a resolved viewer but never require one.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/reviews/:id", h.detail)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", h.feed)
	rg.POST("/reviews", h.create)
	rg.PUT("/reviews/:id", h.update)
	rg.DELETE("/reviews/:id", h.delete)
	rg.POST("/reviews/:id/like", h.like)
	rg.DELETE("/reviews/:id/like", h.unlike)
	rg.POST("/reviews/:id/reward", h.claimReward)
}

// feed composes one page of the viewer's feed: resolve the viewer, expand
// the follow graph, then read the page window and the total count from one
// repository snapshot so the pair cannot disagree under concurrent writes.
func (h *Handler) feed(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, ok := parsePageParam(c.Query("page"), 0)
	if !ok || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, ok := parsePageParam(c.Query("size"), 10)
	if !ok || size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}

	ctx := c.Request.Context()

	viewer, err := h.Users.GetByUsername(ctx, claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve viewer failed"})
		return
	}
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	followees, err := h.Social.FolloweeIDs(ctx, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow graph failed"})
		return
	}

	items, total, err := h.Repo.FeedWindow(ctx, followees, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, models.FeedPage{
		User:    viewer,
		Reviews: items,
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Size:  size,
		},
	})
}

// detail returns a single review. An anonymous caller gets the bare review;
// a resolved viewer additionally gets their like-state. Viewer resolution is
// best-effort: a token whose user no longer exists degrades to the anonymous
// body instead of failing the read.
func (h *Handler) detail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ctx := c.Request.Context()

	review, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusOK, review)
		return
	}

	viewerLikes, err := h.Likes.CountByReviewAndUser(ctx, review.ID, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like lookup failed"})
		return
	}
	likeCount, err := h.Likes.CountByReview(ctx, review.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like lookup failed"})
		return
	}

	c.JSON(http.StatusOK, models.ReviewDetail{
		User:           viewer,
		Review:         *review,
		UserLikeActive: viewerLikes > 0,
		LikeCount:      likeCount,
	})
}

func (h *Handler) create(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	// content must be present, but an empty value is stored as submitted
	if _, ok := form.Value["content"]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}
	content := strings.TrimSpace(c.PostForm("content"))

	review := models.Review{
		ID:      uuid.NewString(),
		UserID:  viewer.ID,
		Title:   title,
		Content: content,
	}

	saved, err := h.Repo.Create(c.Request.Context(), review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.broadcast(live.EventReviewCreated, saved.ID, viewer.ID, saved.Title)
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) update(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ctx := c.Request.Context()

	original, err := h.Repo.GetOwnedUnclaimed(ctx, id, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if original == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if _, err := c.MultipartForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	patch := models.Review{
		Title:   strings.TrimSpace(c.PostForm("title")),
		Content: strings.TrimSpace(c.PostForm("content")),
	}

	merged := Merge(*original, patch)

	ok, err := h.Repo.Update(ctx, merged)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !ok {
		// predicate changed between the read and the write
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	saved, err := h.Repo.GetByID(ctx, merged.ID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	h.broadcast(live.EventReviewUpdated, saved.ID, viewer.ID, saved.Title)
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) delete(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broadcast(live.EventReviewDeleted, id, viewer.ID, "")
	c.Status(http.StatusNoContent)
}

func (h *Handler) like(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ctx := c.Request.Context()

	review, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.Likes.Like(ctx, review.ID, viewer.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		return
	}

	h.broadcast(live.EventReviewLiked, review.ID, viewer.ID, "")
	c.JSON(http.StatusOK, gin.H{"review_id": review.ID, "user_like_active": true})
}

func (h *Handler) unlike(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ok, err := h.Likes.Unlike(c.Request.Context(), id, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlike failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broadcast(live.EventReviewUnliked, id, viewer.ID, "")
	c.Status(http.StatusNoContent)
}

func (h *Handler) claimReward(c *gin.Context) {
	viewer := h.resolveViewer(c)
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id required"})
		return
	}

	ok, err := h.Repo.ClaimReward(c.Request.Context(), id, viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claim failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"review_id": id, "reward_claimed": true})
}

// resolveViewer maps the request's claims, if any, to a stored user. Returns
// nil when the request is anonymous or the principal no longer matches a user.
func (h *Handler) resolveViewer(c *gin.Context) *models.User {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		return nil
	}
	viewer, err := h.Users.GetByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		return nil
	}
	return viewer
}

func (h *Handler) broadcast(eventType, reviewID, userID, title string) {
	if h.Hub == nil {
		return
	}
	ev := live.ReviewEvent{
		Type:     eventType,
		ReviewID: reviewID,
		UserID:   userID,
		Title:    title,
		At:       time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

// parsePageParam keeps the query's defaulting rule: absent means default,
// present means it must be an integer.
func parsePageParam(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
