package model

import "time"

type WorkoutType string

const (
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutStrength    WorkoutType = "strength"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutSport       WorkoutType = "sport"
	WorkoutOther       WorkoutType = "other"
)

var WorkoutTypes = []WorkoutType{
	WorkoutCardio, WorkoutStrength, WorkoutFlexibility, WorkoutSport, WorkoutOther,
}

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

var Intensities = []Intensity{IntensityLow, IntensityModerate, IntensityHigh}

// Workout is a single exercise session owned by one user.
type Workout struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Title           string      `json:"title"`
	Type            WorkoutType `json:"type"`
	DurationMinutes int         `json:"durationMinutes"`
	Intensity       Intensity   `json:"intensity"`
	CaloriesBurned  int         `json:"caloriesBurned"`
	Notes           string      `json:"notes"`
	PerformedAt     time.Time   `json:"performedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
