package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	pkgerrors "github.com/Luni-4/volunteers-shifts/pkg/errors"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// ShiftHandler shift form and personal shifts of one card id
type ShiftHandler struct {
	shiftSvc  service.ShiftService
	exportSvc service.ExportService
}

// NewShiftHandler creates a ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService, exportSvc service.ExportService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc, exportSvc: exportSvc}
}

// Form week windows, catalog and a fresh form token
// GET /api/v1/volunteers/:card_id/shift-form?rows=N
func (h *ShiftHandler) Form(c *gin.Context) {
	cardID, ok := MustGetTargetCard(c)
	if !ok {
		return
	}

	var q dto.ShiftFormQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	form, err := h.shiftSvc.FormState(c.Request.Context(), cardID, q.GetRows())
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, form)
}

// Submit books the selected shifts
// POST /api/v1/volunteers/:card_id/shifts
func (h *ShiftHandler) Submit(c *gin.Context) {
	cardID, ok := MustGetTargetCard(c)
	if !ok {
		return
	}

	var req dto.SubmitShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	result, err := h.shiftSvc.Submit(c.Request.Context(), req.Submission(cardID), req.FormToken)
	if errors.Is(err, service.ErrAlreadySubmitted) {
		// a resent form is not an error: show what is booked
		shifts, lerr := h.shiftSvc.ListByVolunteer(c.Request.Context(), cardID)
		if lerr != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, &dto.SubmitShiftsResponse{AlreadySubmitted: true, Shifts: shifts})
		return
	}
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, result)
}

// List shifts of the card
// GET /api/v1/volunteers/:card_id/shifts
func (h *ShiftHandler) List(c *gin.Context) {
	cardID, ok := MustGetTargetCard(c)
	if !ok {
		return
	}

	shifts, err := h.shiftSvc.ListByVolunteer(c.Request.Context(), cardID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, gin.H{"list": shifts})
}

// Delete removes one of the card's shifts
// DELETE /api/v1/volunteers/:card_id/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	cardID, ok := MustGetTargetCard(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.shiftSvc.DeleteOwn(c.Request.Context(), cardID, id); err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

// Calendar iCalendar feed of the card's shifts
// GET /api/v1/volunteers/:card_id/calendar.ics
func (h *ShiftHandler) Calendar(c *gin.Context) {
	cardID, ok := MustGetTargetCard(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.VolunteerCalendar(c.Request.Context(), cardID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Attachment(c, filename, response.ContentTypeICS, buf.Bytes())
}

func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	var verr *scheduling.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, 14001, verr.Message())
	case errors.Is(err, pkgerrors.ErrConcurrentSubmission):
		response.Conflict(c, 14002, "prenotazione in corso da un'altra sessione, riprova")
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14003, err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Conflict(c, 14004, err.Error())
	case errors.Is(err, service.ErrFormExpired):
		response.Gone(c, 14005, err.Error())
	default:
		response.InternalError(c)
	}
}
