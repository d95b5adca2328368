package entities

// CostCategory is one line of the fixed per-room monthly cost table
type CostCategory string

const (
	CostRent          CostCategory = "rent"
	CostUtilities     CostCategory = "utilities"
	CostCareAllowance CostCategory = "care_allowance"
	CostCatering      CostCategory = "catering"
	CostInvestment    CostCategory = "investment"
)

// CostCategories lists the table rows in report order.
var CostCategories = []CostCategory{
	CostRent,
	CostUtilities,
	CostCareAllowance,
	CostCatering,
	CostInvestment,
}

// CostTable maps each category to its fixed monthly amount per occupied room
type CostTable map[CostCategory]float64

// CostLine is one category's contribution to a facility report
type CostLine struct {
	PerRoom float64 `json:"per_room"`
	Total   float64 `json:"total"`
}

// FacilityCostReport is the per-facility cost and occupancy rollup,
// recomputed from current room state on every call.
type FacilityCostReport struct {
	FacilityID       string                    `json:"facility_id"`
	FacilityName     string                    `json:"facility_name"`
	OccupiedRooms    int                       `json:"occupied_rooms"`
	Capacity         int                       `json:"capacity"`
	OccupancyPercent float64                   `json:"occupancy_percent"`
	Breakdown        map[CostCategory]CostLine `json:"breakdown"`
	MonthlyTotal     float64                   `json:"monthly_total"`
	YearlyTotal      float64                   `json:"yearly_total"`
	LostRevenue      float64                   `json:"lost_revenue"`
}

// FacilityCostSummary is one facility's line in the portfolio rollup
type FacilityCostSummary struct {
	FacilityID       string  `json:"facility_id"`
	FacilityName     string  `json:"facility_name"`
	MonthlyTotal     float64 `json:"monthly_total"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}

// PortfolioCostReport aggregates every facility's cost report
type PortfolioCostReport struct {
	Facilities       []FacilityCostSummary `json:"facilities"`
	MonthlyTotal     float64               `json:"monthly_total"`
	YearlyTotal      float64               `json:"yearly_total"`
	LostRevenue      float64               `json:"lost_revenue"`
	Residents        int                   `json:"residents"`
	Capacity         int                   `json:"capacity"`
	OccupancyPercent float64               `json:"occupancy_percent"`
}
