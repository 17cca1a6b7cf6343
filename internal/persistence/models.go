package persistence

import "time"

// User is the read-only directory record for a technician.
type User struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}

// Visit is the stored shape of a field visit as seen by the scheduling core.
// Company, unit and sector names are denormalised onto the row: visit and
// company management happen outside this service and the core only consumes
// the joined view.
type Visit struct {
	ID             string
	TechnicianID   string
	CompanyID      string
	CompanyName    string
	UnitName       *string
	SectorName     *string
	VisitDate      time.Time
	StartTime      time.Time
	EndTime        time.Time
	NextVisitDate  *time.Time
	NextVisitShift *string
}

// CalendarEntry is a stored agenda booking. Shift and Kind hold the closed
// enum values validated at the application boundary.
type CalendarEntry struct {
	ID           string
	TechnicianID string
	Kind         string
	Title        string
	Description  string
	EventDate    time.Time
	Shift        string
	VisitID      *string
	OriginalDate *time.Time
	ClientName   *string
	Observation  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
