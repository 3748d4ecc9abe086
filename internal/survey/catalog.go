package survey

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrSurveyNotFound = errors.New("survey: not found")

type Catalog struct {
	surveys []domain.Survey
}

// DefaultCatalog parses the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var surveys []domain.Survey
	if err := yaml.Unmarshal(data, &surveys); err != nil {
		return nil, fmt.Errorf("survey: parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(surveys))
	for _, s := range surveys {
		if s.ID == "" {
			return nil, errors.New("survey: catalog entry without id")
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("survey: duplicate id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		if len(s.Questions) == 0 {
			return nil, fmt.Errorf("survey: %q has no questions", s.ID)
		}
		for _, q := range s.Questions {
			if !slices.Contains(q.Options, q.CorrectAnswer) {
				return nil, fmt.Errorf("survey: %q question %q: correct answer is not an option", s.ID, q.ID)
			}
		}
	}

	return &Catalog{surveys: surveys}, nil
}

func (c *Catalog) All() []domain.Survey {
	return slices.Clone(c.surveys)
}

func (c *Catalog) Get(id string) (*domain.Survey, error) {
	for i := range c.surveys {
		if c.surveys[i].ID == id {
			s := c.surveys[i]
			return &s, nil
		}
	}
	return nil, ErrSurveyNotFound
}

// Available returns the surveys not yet in completed.
func (c *Catalog) Available(completed []string) []domain.Survey {
	surveys := make([]domain.Survey, 0, len(c.surveys))
	for _, s := range c.surveys {
		if !slices.Contains(completed, s.ID) {
			surveys = append(surveys, s)
		}
	}
	return surveys
}
