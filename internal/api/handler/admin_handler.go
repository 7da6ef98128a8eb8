package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// AdminHandler roster and shift administration
type AdminHandler struct {
	volunteerSvc service.VolunteerService
	shiftSvc     service.ShiftService
	exportSvc    service.ExportService
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(volunteerSvc service.VolunteerService, shiftSvc service.ShiftService, exportSvc service.ExportService) *AdminHandler {
	return &AdminHandler{volunteerSvc: volunteerSvc, shiftSvc: shiftSvc, exportSvc: exportSvc}
}

// ListVolunteers roster page; refresh=true re-imports the roster first
// GET /api/v1/admin/volunteers
func (h *AdminHandler) ListVolunteers(c *gin.Context) {
	var q dto.VolunteerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	if q.Refresh {
		if _, err := h.volunteerSvc.RefreshRoster(c.Request.Context()); err != nil {
			h.handleAdminError(c, err)
			return
		}
	}

	list, total, err := h.volunteerSvc.List(c.Request.Context(), q.GetOffset(), q.GetPageSize())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OKPage(c, list, total, q.GetPage(), q.GetPageSize())
}

// RefreshRoster imports the roster export
// POST /api/v1/admin/volunteers/refresh
func (h *AdminHandler) RefreshRoster(c *gin.Context) {
	n, err := h.volunteerSvc.RefreshRoster(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, dto.RosterRefreshResponse{Imported: n})
}

// ListShifts every volunteer with their shifts
// GET /api/v1/admin/shifts
func (h *AdminHandler) ListShifts(c *gin.Context) {
	list, err := h.shiftSvc.ListAllByVolunteer(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// DeleteShift removes any shift
// DELETE /api/v1/admin/shifts/:id
func (h *AdminHandler) DeleteShift(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.shiftSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, nil)
}

// PurgeShifts removes shifts dated before today
// POST /api/v1/admin/shifts/purge
func (h *AdminHandler) PurgeShifts(c *gin.Context) {
	n, err := h.shiftSvc.PurgeExpired(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": n})
}

// DumpShifts JSON dump of every shift
// GET /api/v1/admin/shifts/dump
func (h *AdminHandler) DumpShifts(c *gin.Context) {
	entries, err := h.shiftSvc.Dump(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.SetAttachment(c, "turni.json")
	c.JSON(http.StatusOK, entries)
}

// ExportShifts spreadsheet of every shift
// GET /api/v1/admin/shifts/export
func (h *AdminHandler) ExportShifts(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportShiftsXLSX(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	response.Attachment(c, filename, response.ContentTypeXLSX, buf.Bytes())
}

func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRosterUnavailable):
		response.Unavailable(c, 16001, err.Error())
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 16002, err.Error())
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 16003, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
