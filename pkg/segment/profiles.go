package segment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"retail-insights/pkg/models"
)

const (
	FourTierName = "four-tier"
	FiveTierName = "five-tier"
)

// Libellés du profil 4 niveaux (vue client CRM).
const (
	TopSpenders  = "top spenders"
	NewCustomers = "new customers"
	AtRiskDorm   = "at-risk / dormant"
)

// Libellés du profil 5 niveaux (résumé des segments).
const (
	Top     = "Top Spenders"
	Loyal   = "Loyal"
	AtRisk  = "At-Risk"
	Churned = "Churned"
	Regular = "Regular"
)

func ptr(v int) *int { return &v }

// FourTier : scores 1–4, seuils composites 10 / 7 / 5.
func FourTier() Profile {
	return Profile{
		Name:    FourTierName,
		Buckets: 4,
		Rules: []Rule{
			{Label: TopSpenders, AnyOf: []Condition{{MinComposite: ptr(10)}}},
			{Label: NewCustomers, AnyOf: []Condition{{MinFrequency: ptr(1), MaxFrequency: ptr(1), MaxRecency: ptr(60)}}},
			{Label: AtRiskDorm, AnyOf: []Condition{{MinRecency: ptr(91)}, {MaxComposite: ptr(5)}}},
			{Label: TopSpenders, AnyOf: []Condition{{MinComposite: ptr(7)}}},
		},
		Fallback: AtRiskDorm,
		Treatments: map[string]string{
			TopSpenders:  "15% VIP discount",
			NewCustomers: "10% welcome discount",
			AtRiskDorm:   "25% re-engagement discount",
		},
	}
}

// FiveTier : scores 1–5, seuil composite 13 puis conditions sur les paires R/F.
func FiveTier() Profile {
	return Profile{
		Name:    FiveTierName,
		Buckets: 5,
		Rules: []Rule{
			{Label: Top, AnyOf: []Condition{{MinComposite: ptr(13)}}},
			{Label: Loyal, AnyOf: []Condition{{MinR: ptr(4), MinF: ptr(3)}}},
			{Label: AtRisk, AnyOf: []Condition{{MaxR: ptr(2), MinF: ptr(3)}}},
			{Label: Churned, AnyOf: []Condition{{MinF: ptr(1), MaxF: ptr(1), MaxR: ptr(2)}}},
		},
		Fallback: Regular,
		Treatments: map[string]string{
			Top:     "15% VIP discount",
			Loyal:   "10% loyalty reward",
			AtRisk:  "25% re-engagement discount",
			Churned: "30% win-back offer",
			Regular: "5% promo",
		},
	}
}

// ProfileByName retourne un profil intégré.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", FourTierName:
		return FourTier(), nil
	case FiveTierName:
		return FiveTier(), nil
	}
	return Profile{}, fmt.Errorf("%w: unknown segment profile %q", models.ErrConfiguration, name)
}

// LoadProfile lit un profil personnalisé au format YAML.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return parseProfile(data)
}

func parseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: parse profile: %v", models.ErrConfiguration, err)
	}
	return p, nil
}
