package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-board/internal/board/dto"
	"stock-board/internal/board/usecase"
	"stock-board/internal/entity"
	"stock-board/pkg/common"
	"stock-board/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests for board posts.
type PostHandler struct {
	useCases        *usecase.PostUseCases
	defaultPageSize int
	logger          *logger.Logger
}

// NewPostHandler creates a new PostHandler. A non-positive defaultPageSize
// falls back to common.DefaultPageSize.
func NewPostHandler(useCases *usecase.PostUseCases, defaultPageSize int, logger *logger.Logger) *PostHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = common.DefaultPageSize
	}
	return &PostHandler{useCases: useCases, defaultPageSize: defaultPageSize, logger: logger}
}

// RegisterRoutes registers the post routes to the Echo group.
func (h *PostHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllPosts)
	g.GET("/page", h.GetPostsPage)
	g.GET("/trending", h.GetTrendingStocks)
	g.GET("/:id", h.GetPostByID)
	g.POST("", h.CreatePost)
	g.PUT("/:id", h.UpdatePost)
	g.POST("/:id/like", h.LikePost)
	g.DELETE("/:id/like", h.UnlikePost)
	g.DELETE("/:id", h.DeletePost)
}

// GetAllPosts godoc
// @Summary Get all posts
// @Description Get every post, newest first
// @Tags posts
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=[]dto.PostResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts [get]
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.useCases.GetAll.Execute(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusOK, dto.NewPostResponses(posts))
}

// GetPostsPage godoc
// @Summary Get a page of posts
// @Description Get posts page by page with optional filters. Unknown sentiment or position values are ignored.
// @Tags posts
// @Produce  json
// @Param   page          query   int     false   "Page number (default 1)"
// @Param   pageSize      query   int     false   "Page size (default 10, max 100)"
// @Param   sentiment     query   string  false   "bullish, neutral or bearish"
// @Param   positionType  query   string  false   "buy, hold or sell"
// @Param   stockCode     query   string  false   "Stock code"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostPageResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts/page [get]
func (h *PostHandler) GetPostsPage(c echo.Context) error {
	input := usecase.GetPostsPageInput{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "pageSize", h.defaultPageSize),
		StockCode: strings.TrimSpace(c.QueryParam("stockCode")),
	}
	if s := entity.Sentiment(c.QueryParam("sentiment")); s.IsValid() {
		input.Sentiment = s
	}
	if p := entity.PositionType(c.QueryParam("positionType")); p.IsValid() {
		input.PositionType = p
	}

	page, err := h.useCases.GetPage.Execute(c.Request().Context(), input)
	if err != nil {
		return h.fail(c, err)
	}

	return ok(c, http.StatusOK, dto.PostPageResponse{
		Items:    dto.NewPostResponses(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// GetTrendingStocks godoc
// @Summary Get trending stocks
// @Description Get the most discussed stocks of the recent window
// @Tags posts
// @Produce  json
// @Param   limit  query   number  false   "Number of stocks (default 5, 1-20)"
// @Param   days   query   number  false   "Window in days (default 7, 1-90)"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.StockTrendResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts/trending [get]
func (h *PostHandler) GetTrendingStocks(c echo.Context) error {
	trends, err := h.useCases.GetTrending.Execute(c.Request().Context(), usecase.GetTrendingStocksInput{
		Limit: queryFloat(c, "limit"),
		Days:  queryFloat(c, "days"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusOK, dto.NewStockTrendResponses(trends))
}

// GetPostByID godoc
// @Summary Get a post by ID
// @Description Get a single post. The view count is incremented unless recordView=false.
// @Tags posts
// @Produce  json
// @Param   id          path    int     true    "Post ID"
// @Param   recordView  query   bool    false   "Set to false to skip the view count"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts/{id} [get]
func (h *PostHandler) GetPostByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	opts := usecase.GetPostByIdOptions{SkipViewCount: c.QueryParam("recordView") == "false"}
	post, err := h.useCases.GetByID.Execute(c.Request().Context(), id, opts)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusOK, dto.NewPostResponse(post))
}

// CreatePost godoc
// @Summary Create a new post
// @Description Create a new post. Sentiment defaults to neutral and position to hold.
// @Tags posts
// @Accept  json
// @Produce  json
// @Param   post  body    dto.CreatePostRequest   true    "Post to create"
// @Success 201 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req dto.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.useCases.Create.Execute(c.Request().Context(), usecase.CreatePostInput{
		Title:        req.Title,
		Content:      req.Content,
		Author:       req.Author,
		StockCode:    req.StockCode,
		StockName:    req.StockName,
		Sentiment:    entity.Sentiment(req.Sentiment),
		PositionType: entity.PositionType(req.PositionType),
		EntryPrice:   req.EntryPrice.Ptr(),
		TargetPrice:  req.TargetPrice.Ptr(),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusCreated, dto.NewPostResponse(post))
}

// UpdatePost godoc
// @Summary Update an existing post
// @Description Update any subset of a post's fields. A null price clears it.
// @Tags posts
// @Accept  json
// @Produce  json
// @Param   id    path    int                     true    "Post ID"
// @Param   post  body    dto.UpdatePostRequest   true    "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := usecase.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Author:      req.Author,
		StockCode:   req.StockCode,
		StockName:   req.StockName,
		EntryPrice:  usecase.OptionalPrice{Set: req.EntryPrice.Set, Value: req.EntryPrice.Ptr()},
		TargetPrice: usecase.OptionalPrice{Set: req.TargetPrice.Set, Value: req.TargetPrice.Ptr()},
	}
	if req.Sentiment != nil {
		s := entity.Sentiment(*req.Sentiment)
		input.Sentiment = &s
	}
	if req.PositionType != nil {
		p := entity.PositionType(*req.PositionType)
		input.PositionType = &p
	}

	post, err := h.useCases.Update.Execute(c.Request().Context(), id, input)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusOK, dto.NewPostResponse(post))
}

// LikePost godoc
// @Summary Like a post
// @Tags posts
// @Produce  json
// @Param   id  path    int true    "Post ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/posts/{id}/like [post]
func (h *PostHandler) LikePost(c echo.Context) error {
	return h.changeLike(c, 1)
}

// UnlikePost godoc
// @Summary Remove a like from a post
// @Description The like count never drops below zero.
// @Tags posts
// @Produce  json
// @Param   id  path    int true    "Post ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/posts/{id}/like [delete]
func (h *PostHandler) UnlikePost(c echo.Context) error {
	return h.changeLike(c, -1)
}

func (h *PostHandler) changeLike(c echo.Context, delta int) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.useCases.ChangeLike.Execute(c.Request().Context(), id, delta)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, http.StatusOK, dto.NewPostResponse(post))
}

// DeletePost godoc
// @Summary Delete a post
// @Description Delete a post by its ID
// @Tags posts
// @Produce  json
// @Param   id  path    int true    "Post ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.useCases.Delete.Execute(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "post deleted"})
}

// fail translates a use-case error into the error envelope.
func (h *PostHandler) fail(c echo.Context, err error) error {
	var validationErr *usecase.ValidationError
	var notFoundErr *usecase.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return errorJSON(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		return errorJSON(c, http.StatusNotFound, notFoundErr.Message)
	default:
		h.logger.Error("Unexpected error handling request",
			logger.ErrorField(err),
			logger.StringField("method", c.Request().Method),
			logger.StringField("path", c.Path()),
		)
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, dto.SuccessResponse{Success: true, Data: data})
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.ErrorResponse{Success: false, Error: message})
}

// parseID rejects malformed path ids before any use-case runs.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	return int64(id), nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(c echo.Context, name string) *float64 {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
