// Package segment assigne un segment client à partir des scores RFM, via une table de règles ordonnées.
package segment

import (
	"fmt"

	"retail-insights/pkg/models"
)

// Condition borne les champs d'un RFMRecord. Les bornes renseignées sont combinées par ET.
type Condition struct {
	MinComposite *int `yaml:"min_composite,omitempty"`
	MaxComposite *int `yaml:"max_composite,omitempty"`
	MinR         *int `yaml:"min_r,omitempty"`
	MaxR         *int `yaml:"max_r,omitempty"`
	MinF         *int `yaml:"min_f,omitempty"`
	MaxF         *int `yaml:"max_f,omitempty"`
	MinM         *int `yaml:"min_m,omitempty"`
	MaxM         *int `yaml:"max_m,omitempty"`
	MinRecency   *int `yaml:"min_recency_days,omitempty"`
	MaxRecency   *int `yaml:"max_recency_days,omitempty"`
	MinFrequency *int `yaml:"min_frequency,omitempty"`
	MaxFrequency *int `yaml:"max_frequency,omitempty"`
}

// Rule associe un libellé à une liste de conditions combinées par OU.
type Rule struct {
	Label string      `yaml:"label"`
	AnyOf []Condition `yaml:"any_of"`
}

// Profile est une paramétrisation complète du classifieur.
type Profile struct {
	Name       string            `yaml:"name"`
	Buckets    int               `yaml:"buckets"`
	Rules      []Rule            `yaml:"rules"`
	Fallback   string            `yaml:"fallback"`
	Treatments map[string]string `yaml:"treatments"`
}

// Classifier évalue les règles dans l'ordre : la première qui correspond gagne, sinon Fallback.
type Classifier struct {
	profile Profile
}

// NewClassifier valide le profil : chaque libellé (règles + fallback) doit avoir un traitement.
func NewClassifier(p Profile) (*Classifier, error) {
	if p.Buckets < 1 {
		return nil, fmt.Errorf("%w: profile %q: buckets must be >= 1", models.ErrConfiguration, p.Name)
	}
	if p.Fallback == "" {
		return nil, fmt.Errorf("%w: profile %q: fallback label required", models.ErrConfiguration, p.Name)
	}
	if _, ok := p.Treatments[p.Fallback]; !ok {
		return nil, fmt.Errorf("%w: profile %q: no treatment for %q", models.ErrConfiguration, p.Name, p.Fallback)
	}
	for i, r := range p.Rules {
		if r.Label == "" || len(r.AnyOf) == 0 {
			return nil, fmt.Errorf("%w: profile %q: rule %d needs a label and at least one condition", models.ErrConfiguration, p.Name, i)
		}
		if _, ok := p.Treatments[r.Label]; !ok {
			return nil, fmt.Errorf("%w: profile %q: no treatment for %q", models.ErrConfiguration, p.Name, r.Label)
		}
	}
	return &Classifier{profile: p}, nil
}

// Profile retourne le profil utilisé.
func (c *Classifier) Profile() Profile { return c.profile }

// Classify retourne le segment et son traitement. Toujours défini grâce au fallback.
func (c *Classifier) Classify(rec models.RFMRecord) models.Segment {
	label := c.profile.Fallback
	for _, r := range c.profile.Rules {
		if r.matches(rec) {
			label = r.Label
			break
		}
	}
	return models.Segment{Label: label, Treatment: c.profile.Treatments[label]}
}

// Treatment retourne l'offre associée à un libellé ; un libellé inconnu est une erreur.
func (c *Classifier) Treatment(label string) (string, error) {
	t, ok := c.profile.Treatments[label]
	if !ok {
		return "", fmt.Errorf("%w: unknown segment %q", models.ErrConfiguration, label)
	}
	return t, nil
}

// Labels liste les libellés possibles, dans l'ordre des règles puis le fallback.
func (c *Classifier) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.profile.Rules {
		if !seen[r.Label] {
			seen[r.Label] = true
			out = append(out, r.Label)
		}
	}
	if !seen[c.profile.Fallback] {
		out = append(out, c.profile.Fallback)
	}
	return out
}

func (r Rule) matches(rec models.RFMRecord) bool {
	for _, cond := range r.AnyOf {
		if cond.matches(rec) {
			return true
		}
	}
	return false
}

func (c Condition) matches(rec models.RFMRecord) bool {
	return within(rec.Composite, c.MinComposite, c.MaxComposite) &&
		within(rec.RScore, c.MinR, c.MaxR) &&
		within(rec.FScore, c.MinF, c.MaxF) &&
		within(rec.MScore, c.MinM, c.MaxM) &&
		within(rec.RecencyDays, c.MinRecency, c.MaxRecency) &&
		within(rec.Frequency, c.MinFrequency, c.MaxFrequency)
}

func within(v int, min, max *int) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}
