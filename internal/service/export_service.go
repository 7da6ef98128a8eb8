package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
)

// ── export errors ──

var (
	ErrExportNoShifts     = errors.New("nessun turno da esportare")
	ErrExportGenerateFail = errors.New("generazione del file fallita")
)

// ExportService shift exports
//
//   - spreadsheet (.xlsx) of every booked shift, for the administration
//   - iCalendar feed (.ics) of a volunteer's own shifts
//
// Files are returned as buffers; the handler sets the download headers.
type ExportService interface {
	ExportShiftsXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	VolunteerCalendar(ctx context.Context, cardID int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo    *repository.Repository
	catalog *scheduling.Catalog
	cal     *scheduling.Calendar
	title   string
	logger  *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(
	repo *repository.Repository,
	catalog *scheduling.Catalog,
	cal *scheduling.Calendar,
	title string,
	logger *zap.Logger,
) ExportService {
	return &exportService{repo: repo, catalog: catalog, cal: cal, title: title, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportShiftsXLSX
// ════════════════════════════════════════════════════════════
//
// Sheet "Turni": one row per shift ordered by volunteer and date.
// Sheet "Riepilogo": shifts per (date, task).

const (
	shiftsSheet  = "Turni"
	summarySheet = "Riepilogo"
)

func (s *exportService) ExportShiftsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.repo.Shift.ListAll(ctx)
	if err != nil {
		s.logger.Error("lettura turni fallita", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoShifts
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(shiftsSheet)
	if err != nil {
		return nil, "", s.generateFail(err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", s.generateFail(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", s.generateFail(err)
	}

	// title
	_ = f.SetCellValue(shiftsSheet, "A1", s.title+" - Turni")
	_ = f.MergeCell(shiftsSheet, "A1", "H1")
	_ = f.SetCellStyle(shiftsSheet, "A1", "A1", headerStyle)

	// header
	headers := []string{"Tessera", "Cognome", "Nome", "Data", "Giorno", "Mansione", "Entrata", "Uscita"}
	for i, h := range headers {
		_ = f.SetCellValue(shiftsSheet, cell(colName(i), 2), h)
	}
	_ = f.SetCellStyle(shiftsSheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	widths := []float64{10, 18, 18, 12, 12, 20, 10, 10}
	for i, w := range widths {
		col := colName(i)
		_ = f.SetColWidth(shiftsSheet, col, col, w)
	}

	type summaryKey struct {
		date string
		task int
	}
	summary := make(map[summaryKey]int)
	var summaryOrder []summaryKey

	// data
	row := 3
	for i := range rows {
		r := &rows[i]
		date := scheduling.NewDate(r.Date.Year(), r.Date.Month(), r.Date.Day(), s.cal.Location())
		entrance, exit := s.hours(r)

		surname, name := "", ""
		if r.Volunteer != nil {
			surname, name = r.Volunteer.Surname, r.Volunteer.Name
		}

		values := []interface{}{r.CardID, surname, name, date.String(), date.DayName(), s.catalog.TaskName(r.Task), entrance, exit}
		for c, v := range values {
			_ = f.SetCellValue(shiftsSheet, cell(colName(c), row), v)
		}
		row++

		k := summaryKey{date: date.ISO(), task: r.Task}
		if _, ok := summary[k]; !ok {
			summaryOrder = append(summaryOrder, k)
		}
		summary[k]++
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", s.generateFail(err)
	}
	_ = f.SetCellValue(summarySheet, "A1", "Data")
	_ = f.SetCellValue(summarySheet, "B1", "Mansione")
	_ = f.SetCellValue(summarySheet, "C1", "Turni")
	_ = f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)
	_ = f.SetColWidth(summarySheet, "A", "B", 20)
	for i, k := range summaryOrder {
		_ = f.SetCellValue(summarySheet, cell("A", i+2), k.date)
		_ = f.SetCellValue(summarySheet, cell("B", i+2), s.catalog.TaskName(k.task))
		_ = f.SetCellValue(summarySheet, cell("C", i+2), summary[k])
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFail(err)
	}

	filename := fmt.Sprintf("turni_%s.xlsx", s.cal.Today().ISO())
	return buf, filename, nil
}

func (s *exportService) generateFail(err error) error {
	s.logger.Error("generazione Excel fallita", zap.Error(err))
	return ErrExportGenerateFail
}

// ════════════════════════════════════════════════════════════
// VolunteerCalendar
// ════════════════════════════════════════════════════════════

func (s *exportService) VolunteerCalendar(ctx context.Context, cardID int) (*bytes.Buffer, string, error) {
	rows, err := s.repo.Shift.ListByCard(ctx, cardID)
	if err != nil {
		s.logger.Error("lettura turni fallita", zap.Int("card_id", cardID), zap.Error(err))
		return nil, "", err
	}

	loc := s.cal.Location()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//turni//volontari//IT")
	cal.SetXWRCalName(s.title)
	cal.SetXWRTimezone(loc.String())

	stamp := time.Now().UTC()
	for i := range rows {
		r := &rows[i]
		start, end, ok := s.interval(r, loc)
		if !ok {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("turno-%d@turni", r.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(s.catalog.TaskName(r.Task))
		ev.SetDescription(fmt.Sprintf("Turno di %s, tessera %d", s.catalog.TaskName(r.Task), r.CardID))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("turni_%d.ics", cardID), nil
}

// hours entrance and exit labels of a shift
func (s *exportService) hours(r *model.Shift) (string, string) {
	if r.EntranceHour != "" {
		return r.EntranceHour, r.ExitHour
	}
	if t, ok := s.catalog.Task(r.Task); ok {
		return t.Start, t.End
	}
	return "", ""
}

// interval absolute start and end of a shift in loc
func (s *exportService) interval(r *model.Shift, loc *time.Location) (time.Time, time.Time, bool) {
	entrance, exit := s.hours(r)
	sh, sm, ok1 := parseClock(entrance)
	eh, em, ok2 := parseClock(exit)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := r.Date.Date()
	return time.Date(y, m, d, sh, sm, 0, 0, loc), time.Date(y, m, d, eh, em, 0, 0, loc), true
}

// parseClock "08:30" → 8, 30
func parseClock(s string) (int, int, bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
