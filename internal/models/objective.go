package models

import "time"

type ObjectiveCategory string

const (
	ObjectiveStrength    ObjectiveCategory = "strength"
	ObjectiveHypertrophy ObjectiveCategory = "hypertrophy"
	ObjectiveEndurance   ObjectiveCategory = "endurance"
	ObjectivePower       ObjectiveCategory = "power"
	ObjectiveSkill       ObjectiveCategory = "skill"
)

func (c ObjectiveCategory) Valid() bool {
	switch c {
	case ObjectiveStrength, ObjectiveHypertrophy, ObjectiveEndurance,
		ObjectivePower, ObjectiveSkill:
		return true
	}
	return false
}

type ObjectiveStatus string

const (
	ObjectiveActive    ObjectiveStatus = "active"
	ObjectiveAchieved  ObjectiveStatus = "achieved"
	ObjectiveAbandoned ObjectiveStatus = "abandoned"
)

type ObjectivePriority string

const (
	PriorityPrimary   ObjectivePriority = "primary"
	PrioritySecondary ObjectivePriority = "secondary"
	PriorityTertiary  ObjectivePriority = "tertiary"
)

func (p ObjectivePriority) Valid() bool {
	switch p {
	case PriorityPrimary, PrioritySecondary, PriorityTertiary:
		return true
	}
	return false
}

// EntityType names a hierarchy level an objective can be attached to.
type EntityType string

const (
	EntityProgram    EntityType = "program"
	EntityMesocycle  EntityType = "mesocycle"
	EntityMicrocycle EntityType = "microcycle"
	EntitySession    EntityType = "session"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityProgram, EntityMesocycle, EntityMicrocycle, EntitySession:
		return true
	}
	return false
}

// TrainingObjective is owned by a user directly, not nested under a program.
// Status transitions are one-way: active -> achieved (crossing the target) or
// active -> abandoned (explicit). Nothing leaves achieved/abandoned short of
// deleting the row.
type TrainingObjective struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	Name         string            `json:"name"`
	Category     ObjectiveCategory `json:"category"`
	TargetValue  float64           `json:"target_value"`
	CurrentValue float64           `json:"current_value"`
	Status       ObjectiveStatus   `json:"status"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (o *TrainingObjective) IsAchieved() bool {
	return o.Status == ObjectiveAchieved
}

// ObjectiveAssociation links an objective to one hierarchy node. At most one
// association exists per (objective_id, entity_type, entity_id).
type ObjectiveAssociation struct {
	ObjectiveID string            `json:"objective_id"`
	EntityType  EntityType        `json:"entity_type"`
	EntityID    string            `json:"entity_id"`
	Priority    ObjectivePriority `json:"priority"`
	CreatedAt   time.Time         `json:"created_at"`
}
