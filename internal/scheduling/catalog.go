package scheduling

import (
	"fmt"
	"strings"
)

// TaskMode how a task selection turns into shift rows
type TaskMode string

const (
	// FixedTasks every task implies its own hour range; one selection is one shift
	FixedTasks TaskMode = "fixed"
	// VariableTasks entrance/exit hours are chosen and split into one-hour shifts
	VariableTasks TaskMode = "variable"
)

// NoTask sentinel for "slot not filled in"
const NoTask = -1

// ParseTaskMode validates a configured task mode
func ParseTaskMode(s string) (TaskMode, error) {
	switch TaskMode(strings.ToLower(strings.TrimSpace(s))) {
	case FixedTasks, "":
		return FixedTasks, nil
	case VariableTasks:
		return VariableTasks, nil
	default:
		return "", fmt.Errorf("modalità mansioni sconosciuta %q", s)
	}
}

// Task a bookable kind of work
type Task struct {
	ID   int
	Name string
	// Start/End are set only for fixed tasks
	Start string
	End   string
}

// Hours "08:00 - 12:00" for fixed tasks, empty otherwise
func (t Task) Hours() string {
	if t.Start == "" {
		return ""
	}
	return t.Start + " - " + t.End
}

// Hours table of the variable-hour variant
var Hours = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// Catalog task vocabulary of a deployment
type Catalog struct {
	Mode  TaskMode
	Tasks []Task
	Hours []string
}

// FixedCatalog named tasks with their own hour range
func FixedCatalog() *Catalog {
	return &Catalog{
		Mode: FixedTasks,
		Tasks: []Task{
			{ID: 0, Name: "Aiuto Cucina", Start: "08:30", End: "12:30"},
			{ID: 1, Name: "Servizio Sala", Start: "11:30", End: "14:30"},
			{ID: 2, Name: "Magazzino", Start: "09:00", End: "12:00"},
			{ID: 3, Name: "Accoglienza", Start: "14:30", End: "18:00"},
			{ID: 4, Name: "Pulizie", Start: "14:00", End: "16:00"},
		},
	}
}

// VariableCatalog free tasks whose hours come from the Hours table
func VariableCatalog() *Catalog {
	return &Catalog{
		Mode: VariableTasks,
		Tasks: []Task{
			{ID: 0, Name: "Cucina"},
			{ID: 1, Name: "Sala"},
			{ID: 2, Name: "Camere"},
			{ID: 3, Name: "Giardino"},
		},
		Hours: Hours,
	}
}

// NewCatalog catalog for mode
func NewCatalog(mode TaskMode) *Catalog {
	if mode == VariableTasks {
		return VariableCatalog()
	}
	return FixedCatalog()
}

// Task looks a task up by id
func (c *Catalog) Task(id int) (Task, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TaskName name of a task id, or a placeholder for unknown ids
func (c *Catalog) TaskName(id int) string {
	if t, ok := c.Task(id); ok {
		return t.Name
	}
	return fmt.Sprintf("Mansione %d", id)
}

// Hour label of an hour index
func (c *Catalog) Hour(i int) (string, bool) {
	if i < 0 || i >= len(c.Hours) {
		return "", false
	}
	return c.Hours[i], true
}

// HourOption selectable hour in a form
type HourOption struct {
	Value int
	Label string
}

// EntranceHours every hour except the last one
func (c *Catalog) EntranceHours() []HourOption {
	if len(c.Hours) < 2 {
		return nil
	}
	opts := make([]HourOption, 0, len(c.Hours)-1)
	for i := 0; i < len(c.Hours)-1; i++ {
		opts = append(opts, HourOption{Value: i, Label: c.Hours[i]})
	}
	return opts
}

// ExitHours every hour except the first one
func (c *Catalog) ExitHours() []HourOption {
	if len(c.Hours) < 2 {
		return nil
	}
	opts := make([]HourOption, 0, len(c.Hours)-1)
	for i := 1; i < len(c.Hours); i++ {
		opts = append(opts, HourOption{Value: i, Label: c.Hours[i]})
	}
	return opts
}

// HourRange one atomic shift interval
type HourRange struct {
	Start string
	End   string
}

// SplitHourRange decomposes [entrance, exit) into consecutive one-hour
// ranges. It returns exit-entrance ranges, none when exit <= entrance.
// Both indices must be valid positions of hours.
func SplitHourRange(hours []string, entrance, exit int) []HourRange {
	if exit <= entrance || entrance < 0 || exit >= len(hours) {
		return nil
	}
	ranges := make([]HourRange, 0, exit-entrance)
	for h := entrance; h < exit; h++ {
		ranges = append(ranges, HourRange{Start: hours[h], End: hours[h+1]})
	}
	return ranges
}
