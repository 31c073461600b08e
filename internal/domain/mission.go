package domain

type Mission struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
	Type        string `json:"type"` // network / apply / followup / learn
	Icon        string `json:"icon"`
}

type MissionState struct {
	Streak            int       `json:"streak"`
	IsWeekCompleted   bool      `json:"isWeekCompleted"`
	LastCompletedDate string    `json:"lastCompletedDate,omitempty"` // RFC3339
	Missions          []Mission `json:"missions"`
}
