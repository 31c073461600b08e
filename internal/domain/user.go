package domain

type Pin struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NetworkContact struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	DateContacted string `json:"dateContacted"`
	Event         string `json:"event"`
	Notes         string `json:"notes"`
}

type KeyAchievement struct {
	Description string `json:"description"`
	Metric      string `json:"metric"`
}

type User struct {
	Name              string           `json:"name"`
	Interests         []string         `json:"interests"`
	Aspirations       string           `json:"aspirations"`
	PersonalNarrative string           `json:"personalNarrative"`
	CoreCompetencies  []string         `json:"coreCompetencies"`
	SoftSkills        []string         `json:"softSkills"`
	KeyAchievements   []KeyAchievement `json:"keyAchievements"`
	WorkStyle         string           `json:"workStyle"`
	CV                string           `json:"cv"`
	CoverLetter       string           `json:"coverLetter"`

	Pins            []Pin            `json:"pins"`
	NetworkContacts []NetworkContact `json:"networkContacts"`

	// External providers the user linked, e.g. "microsoft" or "imap".
	ConnectedProviders []string `json:"connectedProviders"`
}

func (u User) HasProvider(name string) bool {
	for _, p := range u.ConnectedProviders {
		if p == name {
			return true
		}
	}
	return false
}
