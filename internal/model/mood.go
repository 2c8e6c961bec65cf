package model

import "time"

// Mood scores are collected on a five point scale.
const (
	MinMoodScore = 1
	MaxMoodScore = 5
)

// Level is the answer to "how was your energy/motivation before exercising?".
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Levels lists the accepted Level values.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

// Improvement answers "did you feel better afterwards?".
type Improvement string

const (
	ImprovementYes    Improvement = "yes"
	ImprovementNo     Improvement = "no"
	ImprovementUnsure Improvement = "unsure"
)

var Improvements = []Improvement{ImprovementYes, ImprovementNo, ImprovementUnsure}

// RepeatIntent answers "would you do this again?".
type RepeatIntent string

const (
	RepeatYes   RepeatIntent = "yes"
	RepeatNo    RepeatIntent = "no"
	RepeatMaybe RepeatIntent = "maybe"
)

var RepeatIntents = []RepeatIntent{RepeatYes, RepeatNo, RepeatMaybe}

// MoodLog is a before/after snapshot recorded around a workout.
// Once stored it is never modified; there is no update or delete path.
type MoodLog struct {
	ID               string       `json:"id"`
	UserID           string       `json:"userId"`
	Timestamp        time.Time    `json:"timestamp"`
	BeforeMood       int          `json:"beforeMood"`
	AfterMood        int          `json:"afterMood"`
	BeforeEnergy     Level        `json:"beforeEnergy"`
	BeforeMotivation Level        `json:"beforeMotivation"`
	Improvement      Improvement  `json:"improvement"`
	RepeatIntent     RepeatIntent `json:"repeatIntent"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}
