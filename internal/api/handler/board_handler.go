package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// Subscriber source of board refresh events
type Subscriber interface {
	Subscribe() (<-chan struct{}, func())
}

// BoardHandler live board
type BoardHandler struct {
	shiftSvc  service.ShiftService
	events    Subscriber
	keepAlive time.Duration
}

// NewBoardHandler creates a BoardHandler
func NewBoardHandler(shiftSvc service.ShiftService, events Subscriber) *BoardHandler {
	return &BoardHandler{shiftSvc: shiftSvc, events: events, keepAlive: 25 * time.Second}
}

// Board who works on the selected day
// GET /api/v1/board?week=current|next&day=0..5
func (h *BoardHandler) Board(c *gin.Context) {
	var q dto.BoardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	board, err := h.shiftSvc.Board(c.Request.Context(), scheduling.ParseWeek(q.Week), q.Day)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidDayIndex) {
			response.BadRequest(c, 15001, "giorno non valido")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, board)
}

// Stream server-sent "refresh" events, one per booking change
// GET /api/v1/board/stream
func (h *BoardHandler) Stream(c *gin.Context) {
	events, unsubscribe := h.events.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.SSEvent("ready", "")
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("refresh", "")
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
