package models

import "time"

// DateLayout is how due and completion dates are stored and compared.
const DateLayout = "2006-01-02"

type Role string

const (
	RoleManagement Role = "management"
	RoleSite       Role = "site"
)

func (r Role) Valid() bool {
	return r == RoleManagement || r == RoleSite
}

type Company struct {
	ID            int64
	Name          string
	Address       string
	ContactNumber string
	CreatedAt     time.Time
}

type Representative struct {
	ID        int64
	CompanyID int64
	Name      string
	Position  string
}

type Employee struct {
	ID       int64
	Name     string
	Surname  string
	Position string
	Role     Role
	PIN      string
	Active   bool
}

// DisplayName is for presentation only; employees are always keyed by ID.
func (e Employee) DisplayName() string {
	if e.Surname == "" {
		return e.Name
	}
	return e.Name + " " + e.Surname
}

type Project struct {
	ID                int64
	CompanyID         int64
	Name              string
	Description       string
	QuoteNumber       string
	ProjectNumber     string
	OwnerID           int64
	Progress          float64
	OverallCompletion bool
	Archived          bool
	NewAssignment     bool
	CreatedAt         time.Time

	// Joined fields
	CompanyName string
	OwnerName   string
}

// IsArchived reports whether the project belongs to the archived listing:
// marked complete by management and fully progressed. Every other project is
// active.
func (p Project) IsArchived() bool {
	return p.OverallCompletion && p.Progress >= 100
}

type Task struct {
	ID            int64
	ProjectID     int64
	Area          string
	Equipment     string
	KW            float64
	MainTask      string
	SubTask       string
	AssignedTo    *int64
	DueDate       *time.Time
	Completed     bool
	CompletedDate *time.Time
	Comments      string
	PhotoPath     string
	Weight        float64
	Archived      bool
	CreatedAt     time.Time

	// Joined fields
	ProjectName  string
	AssigneeName string
}

// IsAssignedTo reports whether the task is delegated to employeeID.
func (t Task) IsAssignedTo(employeeID int64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == employeeID
}
