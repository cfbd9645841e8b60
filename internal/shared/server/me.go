package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/server/respond"
)

type meResponse struct {
	UserID      string          `json:"userId"`
	Role        auth.Role       `json:"role"`
	Email       string          `json:"email,omitempty"`
	Name        string          `json:"name,omitempty"`
	Permissions map[string]bool `json:"permissions"`
}

func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler tells the web client who is signed in and which idea actions the
// role unlocks.
func meHandler(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok || user.ID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	respond.OK(c, meResponse{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		Permissions: map[string]bool{
			"submitIdeas":   user.Role == auth.RoleEntrepreneur,
			"reviewIdeas":   user.Reviewer(),
			"viewAnalytics": user.Role == auth.RoleAdmin,
		},
	})
}
