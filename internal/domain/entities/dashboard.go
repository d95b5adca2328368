package entities

// PipelineStage is one column of the intake board with its counts
type PipelineStage struct {
	Status ResidentStatus `json:"status"`
	Label  string         `json:"label"`
	Count  int            `json:"count"`
	Urgent int            `json:"urgent"`
}

// ActionItem flags a prospect that has been waiting with high urgency
type ActionItem struct {
	ResidentID string         `json:"resident_id"`
	Name       string         `json:"name"`
	Status     ResidentStatus `json:"status"`
	Urgency    Urgency        `json:"urgency"`
}

// IntakeDashboard summarizes the resident pipeline and free capacity
type IntakeDashboard struct {
	TotalResidents int             `json:"total_residents"`
	Residents      int             `json:"residents"`
	Prospects      int             `json:"prospects"`
	FreeRooms      int             `json:"free_rooms"`
	Pipeline       []PipelineStage `json:"pipeline"`
	ActionRequired []ActionItem    `json:"action_required"`
}
