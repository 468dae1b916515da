package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/internal/recommend"
)

type Handler struct {
	Repo *Repo
	Live *Live
}

func NewHandler(repo *Repo, live *Live) *Handler {
	return &Handler{Repo: repo, Live: live}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                    // GET /books
	rg.GET("/:id", h.getByID)             // GET /books/:id
	rg.GET("/genre/:genre", h.byGenre)    // GET /books/genre/:genre
	rg.GET("/author/:author", h.byAuthor) // GET /books/author/:author
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:      c.Query("q"),
		Genre:  c.Query("genre"),
		Author: c.Query("author"),
		Year:   parseIntDefault(c.Query("year"), 0),
		Limit:  parseIntDefault(c.Query("limit"), 20),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
	if s := c.Query("bestseller"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bestseller must be true or false"})
			return
		}
		q.Bestseller = &b
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  clampLimit(q.Limit),
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	b, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// byGenre and byAuthor answer from the in-memory snapshot with the same
// ranking the assistant uses.
func (h *Handler) byGenre(c *gin.Context) {
	genre := strings.TrimSpace(c.Param("genre"))
	books := h.Live.ByGenre(genre)
	engine := recommend.NewEngine(h.Live)
	c.JSON(http.StatusOK, gin.H{
		"genre": genre,
		"total": len(books),
		"items": engine.RecommendByGenre(genre, parseIntDefault(c.Query("limit"), len(books))),
	})
}

func (h *Handler) byAuthor(c *gin.Context) {
	author := strings.TrimSpace(c.Param("author"))
	books := h.Live.ByAuthor(author)
	engine := recommend.NewEngine(h.Live)
	c.JSON(http.StatusOK, gin.H{
		"author": author,
		"total":  len(books),
		"items":  engine.RecommendByAuthor(author, parseIntDefault(c.Query("limit"), len(books))),
	})
}

func parseIntDefault(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
