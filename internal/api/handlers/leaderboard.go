package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seungwoo7050/codex-pong-video/internal/service"
)

type LeaderboardHandler struct {
	userService *service.UserService
}

func NewLeaderboardHandler(userService *service.UserService) *LeaderboardHandler {
	return &LeaderboardHandler{
		userService: userService,
	}
}

// GetLeaderboard 레이팅 상위 20명 조회
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	users, err := h.userService.Leaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get leaderboard",
		})
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, user := range users {
		entries = append(entries, gin.H{
			"rank":      i + 1,
			"userId":    user.ID,
			"username":  user.Username,
			"nickname":  user.Nickname,
			"avatarUrl": user.AvatarURL,
			"rating":    user.Rating,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       len(entries),
	})
}
