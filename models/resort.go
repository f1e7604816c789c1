package models

// OptionKind groups the selectable options offered by the wizard.
type OptionKind string

const (
	OptionPurpose    OptionKind = "purpose"
	OptionExperience OptionKind = "experience"
	OptionPreference OptionKind = "preference"
)

// Option is one selectable chip on a wizard step.
type Option struct {
	ID    string     `bson:"id" json:"id" yaml:"id"`
	Kind  OptionKind `bson:"kind" json:"kind" yaml:"kind"`
	Label string     `bson:"label" json:"label" yaml:"label"`
}

// Resort is a read-only catalog entry.
type Resort struct {
	ID          string   `bson:"id" json:"id" yaml:"id"`
	Name        string   `bson:"name" json:"name" yaml:"name"`
	Atoll       string   `bson:"atoll,omitempty" json:"atoll,omitempty" yaml:"atoll"`
	Tags        []string `bson:"tags" json:"tags" yaml:"tags"` // experience and preference ids the resort offers
	Description string   `bson:"description,omitempty" json:"description,omitempty" yaml:"description"`
	Position    int      `bson:"position" json:"-" yaml:"-"` // catalog insertion order
}

// MatchCandidate is a scored resort. Values are produced per matching call and
// not modified afterwards.
type MatchCandidate struct {
	ResortID string   `bson:"resortId" json:"resortId"`
	Name     string   `bson:"name" json:"name"`
	Score    int      `bson:"score" json:"score"`
	Matched  []string `bson:"matched" json:"matched"`
	Picked   bool     `bson:"picked" json:"picked"`
}
