package handlers

import (
	"PearlDental/middlewares"
	"PearlDental/models"
	"PearlDental/services"
	"PearlDental/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService    services.UserService
	PatientService *services.PatientService
}

func NewAuthHandler(userService services.UserService, patientService *services.PatientService) *AuthHandler {
	return &AuthHandler{
		UserService:    userService,
		PatientService: patientService,
	}
}

// callerFromContext rebuilds the authenticated caller from the values the
// token middleware stored. Handlers pass it to services explicitly.
func callerFromContext(c *gin.Context) (services.Caller, error) {
	ctx := c.Request.Context()
	uid, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		return services.Caller{}, err
	}
	role, err := middlewares.ExtractUserRoleFromContext(ctx)
	if err != nil {
		return services.Caller{}, err
	}
	return services.Caller{UID: uid, Role: role}, nil
}

// Register handles new user registration. Self-registration always creates
// a client account; staff accounts go through CreateStaff.
func (h *AuthHandler) Register(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	user.Role = models.RoleClient

	ctx := c.Request.Context()
	if err := h.UserService.ValidateAndCreateUser(ctx, &user); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("Validation failed: %v", err)})
		return
	}

	if _, err := h.PatientService.EnsurePatientNumber(ctx, user.UID); err != nil {
		c.JSON(500, gin.H{"error": "Failed to assign patient number"})
		return
	}

	c.Status(201)
}

// CreateStaff registers a staff account with an explicit role. Admin only.
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.IsStaffRole(user.Role) {
		c.JSON(400, gin.H{"error": "role must be a staff role"})
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.ValidateAndCreateUser(ctx, &user); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("Validation failed: %v", err)})
		return
	}

	c.Status(201)
}

// Login authenticates the user and sets the auth cookies
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.AuthenticateUser(ctx, credentials.Email, credentials.Password)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.UID, user.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate tokens: %v", err)})
		return
	}

	utils.SetAuthCookies(c, accessToken, refreshToken)
	c.JSON(200, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"role":         user.Role,
	})
}

// RefreshToken refreshes the user's access token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie("refreshToken")
	if err != nil || token == "" {
		token = c.DefaultQuery("refreshToken", "")
	}
	if token == "" {
		c.JSON(400, gin.H{"error": "refresh token is required"})
		return
	}

	claims, err := utils.ValidateToken(token, models.ValidRoles...)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid refresh token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate access token: %v", err)})
		return
	}

	c.JSON(200, gin.H{
		"accessToken": accessToken,
	})
}

// Logoff logs the user out by clearing cookies
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(200)
}

// GetUserProfile retrieves the current user's profile
func (h *AuthHandler) GetUserProfile(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.GetUserByUID(ctx, caller.UID)
	if err != nil || user == nil {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}

	record, err := h.PatientService.GetRecord(ctx, caller.UID)
	if err != nil || record == nil {
		c.JSON(200, gin.H{"user": user})
		return
	}

	c.JSON(200, gin.H{
		"user":            user,
		"patientNumber":   record.PatientNumber,
		"profileComplete": record.ProfileComplete,
	})
}

// UpdateUserProfile updates the caller's display name and phone
func (h *AuthHandler) UpdateUserProfile(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	var updateData struct {
		DisplayName string `json:"display_name"`
		Phone       string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.UpdateUserProfile(ctx, caller.UID, updateData.DisplayName, updateData.Phone); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to update profile: %v", err)})
		return
	}

	if updateData.DisplayName != "" && updateData.Phone != "" {
		if err := h.PatientService.MarkProfileComplete(ctx, caller.UID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update patient record"})
			return
		}
	}

	c.Status(200)
}

// ChangePassword updates the caller's password after re-checking the old one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "not authenticated"})
		return
	}

	var data struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.GetUserByUID(ctx, caller.UID)
	if err != nil || user == nil {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}

	if _, err := h.UserService.AuthenticateUser(ctx, user.Email, data.CurrentPassword); err != nil {
		c.JSON(401, gin.H{"error": "Invalid current password"})
		return
	}

	hashedPassword, err := utils.HashPassword(data.NewPassword)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to hash password: %v", err)})
		return
	}

	if err := h.UserService.UpdateUserPassword(ctx, caller.UID, hashedPassword); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to update password: %v", err)})
		return
	}

	c.Status(200)
}

// ListStaff lists staff accounts, optionally filtered by role
func (h *AuthHandler) ListStaff(c *gin.Context) {
	role := c.DefaultQuery("role", "")
	users, err := h.UserService.ListStaff(c.Request.Context(), role)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to retrieve staff: %v", err)})
		return
	}
	c.JSON(200, users)
}

// DeleteAccount removes a user account. Admin only.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(400, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.DeleteUser(ctx, uid); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to delete user account: %v", err)})
		return
	}

	c.Status(http.StatusOK)
}
