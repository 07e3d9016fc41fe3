package api

import (
	"errors"
	"net/http"

	reqdto "biblio-api/internal/handler/dto/request"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	loanCommands commands.LoanCommands
	loanQueries  queries.LoanQueries
}

func NewLoanHandler(loanCommands commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanCommands: loanCommands,
		loanQueries:  loanQueries,
	}
}

// @Summary Borrow a book
// @Tags loans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.BorrowRequest true "Borrow request"
// @Success 201 {object} queries.LoanView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loans [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req reqdto.BorrowRequest
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

	view, err := h.loanCommands.Borrow(c.Request.Context(), req, userID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary List the caller's loans
// @Tags loans
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.LoanView
// @Router /loans [get]
func (h *LoanHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	views, err := h.loanQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Return a borrowed book
// @Tags loans
// @Security BearerAuth
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} queries.LoanView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	view, err := h.loanCommands.Return(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List all loans
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param overdue query bool false "Only overdue open loans"
// @Success 200 {array} queries.AdminLoanView
// @Router /admin/loans [get]
func (h *LoanHandler) ListAll(c *gin.Context) {
	overdueOnly := c.Query("overdue") == "true"

	views, err := h.loanQueries.ListAll(c.Request.Context(), overdueOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Correct a loan record
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param request body reqdto.AdminLoanUpdateRequest true "Fields to change"
// @Success 200 {object} queries.LoanView
// @Failure 404 {object} map[string]string
// @Router /admin/loans/{id} [patch]
func (h *LoanHandler) AdminUpdate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.AdminLoanUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.loanCommands.AdminUpdate(c.Request.Context(), id, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *LoanHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book not found",
		})
	case errors.Is(err, commands.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Loan not found",
		})
	case errors.Is(err, commands.ErrNoCopiesAvailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "No copies available",
		})
	case errors.Is(err, commands.ErrLoanAlreadyReturned):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Loan already returned",
		})
	case errors.Is(err, commands.ErrInvalidDueDate):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Due date must be in the future",
		})
	case errors.Is(err, commands.ErrNotLoanOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Loan belongs to another user",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
