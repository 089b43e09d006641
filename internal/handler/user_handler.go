package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloworks/user-service/internal/service"
)

type UserHandler struct {
	users    *service.UserService
	accounts *service.AccountService
}

func NewUserHandler(users *service.UserService, accounts *service.AccountService) *UserHandler {
	return &UserHandler{users: users, accounts: accounts}
}

// GetInternalUser serves the slim projection other services consume.
// Exposed on the internal route group only.
func (h *UserHandler) GetInternalUser(c *gin.Context) {
	userID := c.Param("id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	projection, err := h.users.GetInternalUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projection})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Avatar       *string `json:"avatar"`
		Plan         *string `json:"plan" binding:"omitempty,oneof=free plus pro"`
		ReceiptScans *bool   `json:"receipt_scans"`
		MultiWallet  *bool   `json:"multi_wallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:         req.Name,
		Avatar:       req.Avatar,
		Plan:         req.Plan,
		ReceiptScans: req.ReceiptScans,
		MultiWallet:  req.MultiWallet,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteAccount runs the deletion saga for the authenticated user.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	result, err := h.accounts.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeletionBlocked):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Account has unsettled financial records and cannot be deleted",
			})
		case errors.Is(err, service.ErrDebtCheckUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Financial status could not be verified, try again later",
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// authorizedUserID validates the path id and checks it belongs to the
// authenticated principal, before any collaborator is contacted.
func (h *UserHandler) authorizedUserID(c *gin.Context) (string, bool) {
	userID := c.Param("id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return "", false
	}

	if c.GetString("user_id") != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot act on another user's account"})
		return "", false
	}

	return userID, true
}
