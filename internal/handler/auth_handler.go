package handler

import (
	"net/http"

	"github.com/biolink/internal/db"
	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register creates the single owner account. Once a profile exists it answers 403.
func (a *API) Register(c *gin.Context) {
	var payload registerRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	result, err := a.auth.Register(service.RegisterInput{
		Username:    payload.Username,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
	})
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created",
		"token":   result.Token,
		"user":    userPayload(result.Profile),
	})
}

// Login 校验用户名与密码并签发令牌
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	result, err := a.auth.Login(payload.Username, payload.Password)
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  userPayload(result.Profile),
	})
}

// ChangePassword replaces the owner password after checking the current one.
func (a *API) ChangePassword(c *gin.Context) {
	var payload changePasswordRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	if err := a.auth.ChangePassword(currentOwnerID(c), payload.CurrentPassword, payload.NewPassword); err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func userPayload(profile *db.Profile) gin.H {
	return gin.H{
		"id":          profile.ID,
		"username":    profile.Username,
		"displayName": profile.DisplayName,
	}
}
