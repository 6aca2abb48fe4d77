package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

// Profile é um item cru do actor de perfis do LinkedIn.
type Profile struct {
	ID               string     `json:"id" yaml:"id"`
	PublicIdentifier string     `json:"publicIdentifier" yaml:"publicIdentifier"`
	LinkedinURL      string     `json:"linkedinUrl" yaml:"linkedinUrl"`
	FirstName        string     `json:"firstName" yaml:"firstName"`
	LastName         string     `json:"lastName" yaml:"lastName"`
	Headline         string     `json:"headline" yaml:"headline"`
	Location         *Location  `json:"location,omitempty" yaml:"location"`
	Verified         bool       `json:"verified" yaml:"verified"`
	About            string     `json:"about" yaml:"about"`
	CurrentPosition  []Position `json:"currentPosition,omitempty" yaml:"currentPosition"`
	Experience       []Position `json:"experience,omitempty" yaml:"experience"`
	ProfilePicture   *Picture   `json:"profilePicture,omitempty" yaml:"profilePicture"`
	Skills           Skills     `json:"skills" yaml:"skills"`
}

type Location struct {
	LinkedinText string `json:"linkedinText" yaml:"linkedinText"`
}

type Position struct {
	Position    string `json:"position,omitempty" yaml:"position"`
	Title       string `json:"title,omitempty" yaml:"title"`
	CompanyName string `json:"companyName,omitempty" yaml:"companyName"`
	Description string `json:"description,omitempty" yaml:"description"`
}

type Picture struct {
	URL string `json:"url" yaml:"url"`
}

// Skills aceita tanto [{"name": "Go"}] quanto ["Go"].
type Skills []string

type namedSkill struct {
	Name string `json:"name" yaml:"name"`
}

func (s *Skills) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("skills: %w", err)
	}

	out := make(Skills, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj namedSkill
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("skills: formato não suportado: %s", string(item))
		}
		if obj.Name != "" {
			out = append(out, obj.Name)
		}
	}
	*s = out
	return nil
}

func (s *Skills) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("skills: esperado uma lista na linha %d", value.Line)
	}

	out := make(Skills, 0, len(value.Content))
	for _, n := range value.Content {
		switch n.Kind {
		case yaml.ScalarNode:
			out = append(out, n.Value)
		case yaml.MappingNode:
			var obj namedSkill
			if err := n.Decode(&obj); err != nil {
				return err
			}
			if obj.Name != "" {
				out = append(out, obj.Name)
			}
		default:
			return fmt.Errorf("skills: formato não suportado na linha %d", n.Line)
		}
	}
	*s = out
	return nil
}

func first(ps []Position) *Position {
	if len(ps) == 0 {
		return nil
	}
	return &ps[0]
}

// ToCandidate converte o perfil cru no candidato exibido na busca.
func (p Profile) ToCandidate() entity.Candidate {
	latest := first(p.Experience)
	current := first(p.CurrentPosition)

	role := "Open to work"
	switch {
	case latest != nil && latest.Position != "":
		role = latest.Position
	case current != nil && current.Title != "":
		role = current.Title
	}

	company := "Freelance"
	switch {
	case latest != nil && latest.CompanyName != "":
		company = latest.CompanyName
	case current != nil && current.CompanyName != "":
		company = current.CompanyName
	}

	id := p.PublicIdentifier
	if id == "" {
		id = uuid.New().String()
	}

	headline := p.Headline
	if headline == "" {
		headline = "No Headline"
	}

	location := "Remote / Unknown"
	if p.Location != nil && p.Location.LinkedinText != "" {
		location = p.Location.LinkedinText
	}

	avatar := ""
	if p.ProfilePicture != nil {
		avatar = p.ProfilePicture.URL
	}

	skills := []string(p.Skills)
	if skills == nil {
		skills = []string{}
	}

	return entity.Candidate{
		ID:          id,
		FullName:    strings.TrimSpace(p.FirstName + " " + p.LastName),
		Headline:    headline,
		CurrentRole: role,
		Company:     company,
		Location:    location,
		AvatarURL:   avatar,
		LinkedinURL: p.LinkedinURL,
		Skills:      skills,
		Summary:     p.About,
		Verified:    p.Verified,
	}
}
