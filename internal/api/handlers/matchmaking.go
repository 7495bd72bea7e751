package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"github.com/seungwoo7050/codex-pong-video/internal/service"
)

type MatchmakingHandler struct {
	matchmakingService *service.MatchmakingService
	userService        *service.UserService
}

func NewMatchmakingHandler(matchmakingService *service.MatchmakingService, userService *service.UserService) *MatchmakingHandler {
	return &MatchmakingHandler{
		matchmakingService: matchmakingService,
		userService:        userService,
	}
}

// EnqueueQuick 일반전 매칭 요청
func (h *MatchmakingHandler) EnqueueQuick(c *gin.Context) {
	h.enqueue(c, models.MatchTypeNormal)
}

// EnqueueRanked 랭크전 매칭 요청
func (h *MatchmakingHandler) EnqueueRanked(c *gin.Context) {
	h.enqueue(c, models.MatchTypeRanked)
}

// GetQuickTicket 일반전 티켓 상태 조회
func (h *MatchmakingHandler) GetQuickTicket(c *gin.Context) {
	h.getTicket(c, models.MatchTypeNormal)
}

// GetRankedTicket 랭크전 티켓 상태 조회
func (h *MatchmakingHandler) GetRankedTicket(c *gin.Context) {
	h.getTicket(c, models.MatchTypeRanked)
}

// CancelQuickTicket 일반전 티켓 취소
func (h *MatchmakingHandler) CancelQuickTicket(c *gin.Context) {
	h.cancelTicket(c, models.MatchTypeNormal)
}

// CancelRankedTicket 랭크전 티켓 취소
func (h *MatchmakingHandler) CancelRankedTicket(c *gin.Context) {
	h.cancelTicket(c, models.MatchTypeRanked)
}

func (h *MatchmakingHandler) enqueue(c *gin.Context, matchType models.MatchType) {
	userId, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	user, err := h.userService.GetByID(userId.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user",
		})
		return
	}

	ticket := h.matchmakingService.Enqueue(user, matchType)

	c.JSON(http.StatusOK, gin.H{
		"ticket": ticket,
	})
}

// getTicket 티켓 조회. 소유자가 아니거나 종류가 다르면 존재를 노출하지 않고 404.
func (h *MatchmakingHandler) getTicket(c *gin.Context, matchType models.MatchType) {
	userId, _ := c.Get("userId")
	ticketID := c.Param("ticketId")

	ticket := h.matchmakingService.FindTicketFor(ticketID, userId.(string), matchType)
	if ticket == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket": ticket,
	})
}

func (h *MatchmakingHandler) cancelTicket(c *gin.Context, matchType models.MatchType) {
	userId, _ := c.Get("userId")
	ticketID := c.Param("ticketId")

	// 종류가 다른 티켓은 조회와 동일하게 404 처리
	if ticket := h.matchmakingService.FindTicketFor(ticketID, userId.(string), matchType); ticket == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
		return
	}

	err := h.matchmakingService.Cancel(ticketID, userId.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound), errors.Is(err, service.ErrTicketNotYours):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, service.ErrTicketImmutable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Ticket already matched",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to cancel ticket",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket cancelled",
	})
}
