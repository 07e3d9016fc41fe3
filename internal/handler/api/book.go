package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "biblio-api/internal/handler/dto/request"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	bookCommands commands.BookCommands
	bookQueries  queries.BookQueries
}

func NewBookHandler(bookCommands commands.BookCommands, bookQueries queries.BookQueries) *BookHandler {
	return &BookHandler{
		bookCommands: bookCommands,
		bookQueries:  bookQueries,
	}
}

// @Summary List catalog with search and pagination
// @Tags books
// @Produce json
// @Param search query string false "Free text over title, author, genre and isbn"
// @Param author query string false "Author filter"
// @Param genre query string false "Genre filter"
// @Param page query int false "Page number, 1-based"
// @Param page_size query int false "Page size, max 100"
// @Success 200 {object} queries.BookPage
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	var req reqdto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	page, err := h.bookQueries.List(c.Request.Context(), queries.ListBooksParams{
		Search:   req.Search,
		Author:   req.Author,
		Genre:    req.Genre,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Get a book by id
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} queries.BookView
// @Failure 404 {object} map[string]string
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.bookQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Serve the stored cover image
// @Tags books
// @Produce image/*
// @Param id path string true "Book ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /books/{id}/cover [get]
func (h *BookHandler) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cover, err := h.bookQueries.GetCover(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrCoverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cover image not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Data(http.StatusOK, cover.ContentType, cover.Data)
}

// @Summary Add a book to the catalog
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookRequest true "Book data"
// @Success 201 {object} queries.BookView
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	view, err := h.bookCommands.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Update catalog fields of a book
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Fields to change"
// @Success 200 {object} queries.BookView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.bookCommands.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Remove a book from the catalog
// @Tags books
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.bookCommands.Delete(c.Request.Context(), id); err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Upload a cover image
// @Tags books
// @Security BearerAuth
// @Accept multipart/form-data
// @Param id path string true "Book ID"
// @Param cover formData file true "Cover image"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /books/{id}/cover [put]
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cover file required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read cover file",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read cover file",
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.bookCommands.SetCover(c.Request.Context(), id, data, contentType); err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book not found",
		})
	case errors.Is(err, commands.ErrDuplicateISBN):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A book with this ISBN already exists",
		})
	case errors.Is(err, commands.ErrBookHasActivity):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Book has loans or reservations",
		})
	case errors.Is(err, commands.ErrInvalidBookData):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book data",
		})
	case errors.Is(err, commands.ErrCoverTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cover image too large",
		})
	case errors.Is(err, commands.ErrUnsupportedCover):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported cover image type",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid id",
		})
		return uuid.Nil, false
	}
	return id, true
}
