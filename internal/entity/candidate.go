package entity

import "strings"

// Candidate é um perfil vindo do scraper, ainda não salvo como Lead.
type Candidate struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullName"`
	Headline    string   `json:"headline"`
	CurrentRole string   `json:"currentRole"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	AvatarURL   string   `json:"avatarUrl"`
	LinkedinURL string   `json:"linkedinUrl"`
	Skills      []string `json:"skills"`
	Summary     string   `json:"summary"`
	Verified    bool     `json:"verified"`
}

// SplitName separa o primeiro nome do resto.
func (c Candidate) SplitName() (first, last string) {
	parts := strings.Fields(c.FullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
