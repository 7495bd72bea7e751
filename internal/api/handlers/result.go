package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seungwoo7050/codex-pong-video/internal/service"
)

type ResultHandler struct {
	resultService *service.ResultService
}

func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
	}
}

// GetRecentResults 최근 경기 결과 조회
func (h *ResultHandler) GetRecentResults(c *gin.Context) {
	results, err := h.resultService.FindRecentResults()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get recent results",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// GetMyResults 내가 참여한 경기 결과 조회
func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	results, err := h.resultService.FindResultsForUser(userId.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user results",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
