package exercises

import "time"

// Exercise is a library entry. IDs come from the spreadsheet, not the store.
type Exercise struct {
	ID               int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name             string    `gorm:"not null;index" json:"name"`
	Group            *string   `gorm:"column:muscle_group;index" json:"group"`
	MovementPattern  *string   `json:"movementPattern"`
	Equipment        *string   `gorm:"index" json:"equipment"`
	PrimaryMuscles   *string   `json:"primaryMuscles"`
	SecondaryMuscles *string   `json:"secondaryMuscles"`
	TempoSuggested   *string   `json:"tempoSuggested"`
	VariationEasier  *string   `json:"variationEasier"`
	VariationHarder  *string   `json:"variationHarder"`
	Checklist        *string   `json:"checklist"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// GroupOr returns the muscle group, or fallback when it is null. An empty
// group is kept as is.
func (e *Exercise) GroupOr(fallback string) string {
	if e == nil || e.Group == nil {
		return fallback
	}
	return *e.Group
}
