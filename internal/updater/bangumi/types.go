package bangumi

// Subject is the slice of the Bangumi v0 subject schema this server reads.
type Subject struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`    // original (usually Japanese) title
	NameCN   string `json:"name_cn"` // Chinese display title, may be empty
	Date     string `json:"date"`    // air date, "2006-01-02", may be empty
	Platform string `json:"platform"`
	Summary  string `json:"summary"`
	NSFW     bool   `json:"nsfw"`
}

// DisplayName prefers the localized title and falls back to the original.
func (s *Subject) DisplayName() string {
	if s.NameCN != "" {
		return s.NameCN
	}
	return s.Name
}
