package domain

// Deadline sentinels used by generated listings that have no fixed date.
// Jobs carrying one of these are skipped by deadline tracking.
const (
	DeadlineVaries  = "Varies"
	DeadlineUnknown = "Unknown"
)

type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Tenure      string   `json:"tenure"`
	Visa        string   `json:"visa"`
	Deadline    string   `json:"deadline"` // YYYY-MM-DD, or a sentinel above
	URL         string   `json:"url,omitempty"`

	// Enrichment, filled lazily by the generative provider.
	CompanyInfo      string `json:"companyInfo,omitempty"`
	CompanyNews      string `json:"companyNews,omitempty"`
	IndustryNews     string `json:"industryNews,omitempty"`
	Industry         string `json:"industry,omitempty"`
	RecruiterContact string `json:"recruiterContact,omitempty"`

	Mode              string `json:"mode,omitempty"`   // On-site / Hybrid / Remote
	Status            string `json:"status,omitempty"` // Open / Closed
	ApplicationStatus string `json:"applicationStatus,omitempty"`
	IsExternal        bool   `json:"isExternal,omitempty"`
	Stage             string `json:"stage,omitempty"`
	DateApplied       string `json:"dateApplied,omitempty"`
}

// HasOffer reports whether the job already reached a terminal offer,
// in either of the two status fields the UI writes.
func (j Job) HasOffer() bool {
	return j.ApplicationStatus == "Offer" || j.Stage == "Offer"
}

type Alum struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
}
