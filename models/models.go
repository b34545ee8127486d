package models

import "time"

// RawRecord is one flat row from a backend table: column name to scalar
// value. Rows that belong to an establishment carry an est_id column.
type RawRecord map[string]interface{}

// LabeledValue pairs a label (a column name, possibly with a suffix
// stripped) with its numeric value. Used for menu/protein composition.
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SpecialtyCategory tags a specialty entry with the table it came from.
type SpecialtyCategory string

const (
	SpecialtyItem    SpecialtyCategory = "Item"
	SpecialtyProtein SpecialtyCategory = "Protein"
	SpecialtySalsa   SpecialtyCategory = "Salsa"
)

// Specialty is a highlighted item, protein, or salsa for an establishment.
type Specialty struct {
	Category    SpecialtyCategory `json:"category"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
}

// ProcessedSite is the fully derived, read-only view model for one
// establishment. A new collection replaces the old one atomically on every
// refresh; nothing mutates a ProcessedSite in place.
type ProcessedSite struct {
	EstID     int64     `json:"est_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`

	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description,omitempty"`

	// Raw per-day opening and closing values, keyed e.g. wed_start / wed_end.
	// Open-now is evaluated lazily against these, never stored.
	StartHours map[string]string `json:"start_hours"`
	EndHours   map[string]string `json:"end_hours"`

	MenuPercentages    []LabeledValue `json:"menu_percentages"`
	TopMenuItems       []LabeledValue `json:"top_menu_items"`
	ProteinPercentages []LabeledValue `json:"protein_percentages"`
	TopProteins        []LabeledValue `json:"top_proteins"`

	// Availability flags from the protein record's *_yes columns,
	// keyed by protein name (chicken, beef, ...).
	ProteinYes map[string]bool `json:"protein_yes"`

	SalsaCount  int     `json:"salsa_count"`
	HeatOverall float64 `json:"heat_overall"`

	Specialties []Specialty `json:"specialties,omitempty"`
}

// SummaryStats holds the site-wide aggregates. All zero when the backend
// has no summary row.
type SummaryStats struct {
	MaxSalsas float64 `json:"max_salsas"`
	AvgSalsas float64 `json:"avg_salsas"`
	MaxHeat   float64 `json:"max_heat"`
	AvgHeat   float64 `json:"avg_heat"`
}

// SpiceRange is an inclusive heat-level window.
type SpiceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterConfig is the user-controlled predicate set narrowing the visible
// site collection. Zero-value maps mean "no filtering" for that predicate.
type FilterConfig struct {
	SearchText        string          `json:"search_text"`
	Proteins          map[string]bool `json:"proteins"`
	Types             map[string]bool `json:"types"`
	SpiceLevel        SpiceRange      `json:"spice_level"`
	OpenNow           bool            `json:"open_now"`
	ShowFavoritesOnly bool            `json:"show_favorites_only"`
}

// SpiceLevelMax is the upper bound of the heat slider.
const SpiceLevelMax = 10

// DefaultFilterConfig returns a config that passes every site.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		SpiceLevel: SpiceRange{Min: 0, Max: SpiceLevelMax},
	}
}

// User is the authenticated identity supplied by the auth collaborator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Submission represents a user-submitted location awaiting admin review.
type Submission struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Address          string    `json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Website          string    `json:"website,omitempty"`
	Instagram        string    `json:"instagram,omitempty"`
	Facebook         string    `json:"facebook,omitempty"`
	Status           string    `json:"status"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// Submission review states.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// SubmissionStats summarizes a user's submissions by review state.
type SubmissionStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// DaySchedule is one row of the weekly hours display, Monday first.
type DaySchedule struct {
	Day    string `json:"day"`
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}
