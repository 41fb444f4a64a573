package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/postline/postline/internal/application"
	"github.com/postline/postline/internal/domain"
	"github.com/postline/postline/internal/transport/mw"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	svc *application.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *application.Service) *Handler {
	return &Handler{svc: svc}
}

// --- Posts ---

type createPostRequest struct {
	Name          string `json:"name"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	Status        string `json:"status"`
	CommentPolicy string `json:"comment_policy"`
	Type          string `json:"type"`
}

type updatePostRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`
	Status  *string `json:"status"`
}

// ListPosts GET /posts?status=
func (h *Handler) ListPosts(c echo.Context) error {
	status := domain.PostStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown post status")
	}

	posts, err := h.svc.ListPosts(c.Request().Context(), status)
	if err != nil {
		return echo.ErrInternalServerError
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost POST /posts
func (h *Handler) CreatePost(c echo.Context) error {
	user := mw.CurrentUser(c)

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and content are required")
	}

	id, err := h.svc.CreatePost(c.Request().Context(), domain.CreatePostInput{
		Name:          req.Name,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Status:        domain.PostStatus(req.Status),
		CommentPolicy: domain.CommentPolicy(req.CommentPolicy),
		Type:          domain.PostType(req.Type),
		AuthorID:      user.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			return echo.NewHTTPError(http.StatusBadRequest, "Author does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusCreated, map[string]int64{"post_id": id})
}

// ChangePost PATCH /posts/:id
func (h *Handler) ChangePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	input := domain.UpdatePostInput{
		Name:    req.Name,
		Content: req.Content,
		Excerpt: req.Excerpt,
	}
	if req.Status != nil {
		status := domain.PostStatus(*req.Status)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown post status")
		}
		input.Status = &status
	}

	post, err := h.svc.ChangePost(c.Request().Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "Post does not exist.")
		case errors.Is(err, domain.ErrIntegrity):
			return echo.NewHTTPError(http.StatusBadRequest, "Author does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost DELETE /posts/:id
func (h *Handler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeletePost(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Post does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]bool{"result": true})
}

// --- Comments ---

type createCommentRequest struct {
	Karma   int    `json:"karma"`
	Content string `json:"content"`
	Type    string `json:"type"`
	PostID  int64  `json:"post_id"`
}

type updateCommentRequest struct {
	Karma    *int    `json:"karma"`
	Content  *string `json:"content"`
	Approved *bool   `json:"approved"`
}

// ListComments GET /comments?type=
func (h *Handler) ListComments(c echo.Context) error {
	user := mw.CurrentUser(c)

	ctype := domain.CommentType(c.QueryParam("type"))
	if ctype != "" && !ctype.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown comment type")
	}

	comments, err := h.svc.ListComments(c.Request().Context(), ctype, user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment POST /comments
func (h *Handler) CreateComment(c echo.Context) error {
	user := mw.CurrentUser(c)

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" || req.PostID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "content and post_id are required")
	}

	id, err := h.svc.CreateComment(c.Request().Context(), domain.CreateCommentInput{
		Karma:    req.Karma,
		Content:  req.Content,
		Type:     domain.CommentType(req.Type),
		AuthorID: user.ID,
		PostID:   req.PostID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			return echo.NewHTTPError(http.StatusBadRequest, "Author or post does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusCreated, map[string]int64{"comment_id": id})
}

// ChangeComment PATCH /comments/:id
func (h *Handler) ChangeComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.svc.ChangeComment(c.Request().Context(), id, domain.UpdateCommentInput{
		Karma:    req.Karma,
		Content:  req.Content,
		Approved: req.Approved,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Comment does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment DELETE /comments/:id
func (h *Handler) DeleteComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteComment(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Comment does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]bool{"result": true})
}

// --- Followers ---

// Follow POST /followers/:username — current user follows :username.
func (h *Handler) Follow(c echo.Context) error {
	user := mw.CurrentUser(c)
	followee := c.Param("username")

	if err := h.svc.Follow(c.Request().Context(), user.Username, followee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "User does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]bool{"result": true})
}

// Unfollow DELETE /followers/:username
func (h *Handler) Unfollow(c echo.Context) error {
	user := mw.CurrentUser(c)
	followee := c.Param("username")

	if err := h.svc.Unfollow(c.Request().Context(), user.Username, followee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "User or follow does not exist.")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]bool{"result": true})
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
