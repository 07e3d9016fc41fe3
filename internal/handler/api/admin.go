package api

import (
	"net/http"

	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminQueries queries.AdminQueries
}

func NewAdminHandler(adminQueries queries.AdminQueries) *AdminHandler {
	return &AdminHandler{
		adminQueries: adminQueries,
	}
}

// @Summary Library-wide counters
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.StatsView
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminQueries.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary List all user accounts
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.AuthorizedUserView
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.adminQueries.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Loan and reservation history of a user
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} queries.UserHistoryView
// @Router /admin/users/{id}/history [get]
func (h *AdminHandler) UserHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	history, err := h.adminQueries.UserHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, history)
}
