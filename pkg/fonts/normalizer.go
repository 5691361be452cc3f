// Package fonts maps the font names found in PDF files onto logical font
// identities.
//
// PDF producers rarely agree on a name for the same typeface: Times New Roman
// shows up as "TimesNewRomanPSMT", "TimesNewRomanPS-BoldMT", "Times New Roman"
// and so on. A Normalizer folds such variants into one canonical name so they
// are counted and judged together.
package fonts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultTarget is the font documents are expected to use
const DefaultTarget = "Times New Roman"

// ErrInvalidConfig is returned by NewNormalizer for unusable configurations
var ErrInvalidConfig = errors.New("invalid font configuration")

// AliasGroup maps every raw name containing one of Aliases to Canonical
type AliasGroup struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Aliases   []string `yaml:"aliases" json:"aliases"`
}

// Config selects the target font and the alias groups used for normalization
type Config struct {
	Target      string       `yaml:"target" json:"target"`
	AliasGroups []AliasGroup `yaml:"alias_groups" json:"alias_groups"`
}

// DefaultConfig returns the Times New Roman configuration
func DefaultConfig() Config {
	return Config{
		Target: DefaultTarget,
		AliasGroups: []AliasGroup{
			{
				Canonical: DefaultTarget,
				Aliases: []string{
					"times new roman",
					"timesnewromanps",
					"timesnewromanpsmt",
					"timesnewromanps-boldmt",
					"timesnewromanps-italicmt",
					"timesnewromanps-bolditalicmt",
				},
			},
		},
	}
}

// Normalizer canonicalizes raw font names. It is immutable and safe for
// concurrent use.
type Normalizer struct {
	target string
	groups []AliasGroup // aliases stored case-folded
}

// NewNormalizer validates cfg and builds a Normalizer from it
func NewNormalizer(cfg Config) (*Normalizer, error) {
	target := strings.TrimSpace(cfg.Target)
	if target == "" {
		return nil, fmt.Errorf("%w: target font is required", ErrInvalidConfig)
	}

	n := &Normalizer{target: target}
	for i, group := range cfg.AliasGroups {
		canonical := strings.TrimSpace(group.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("%w: alias group %d has no canonical name", ErrInvalidConfig, i)
		}
		if len(group.Aliases) == 0 {
			return nil, fmt.Errorf("%w: alias group %q has no aliases", ErrInvalidConfig, canonical)
		}

		folded := AliasGroup{Canonical: canonical}
		for _, alias := range group.Aliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				return nil, fmt.Errorf("%w: alias group %q has an empty alias", ErrInvalidConfig, canonical)
			}
			folded.Aliases = append(folded.Aliases, fold(alias))
		}
		n.groups = append(n.groups, folded)
	}

	return n, nil
}

// Normalize returns the canonical name for raw. The first alias contained
// in the case-folded name wins, groups and aliases checked in order. Names
// matching no alias are returned unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	name := fold(raw)
	for _, group := range n.groups {
		for _, alias := range group.Aliases {
			if strings.Contains(name, alias) {
				return group.Canonical
			}
		}
	}
	return raw
}

// Target returns the canonical name of the expected font
func (n *Normalizer) Target() string {
	return n.target
}

// Conforms reports whether a canonical font name is the target font
func (n *Normalizer) Conforms(canonical string) bool {
	return canonical == n.target
}

// fold case-folds s. Casers keep state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
