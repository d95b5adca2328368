package services

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/pkg/config"
)

// CostService computes facility and portfolio cost reports from the fixed
// per-room monthly cost table. Reports are derived from current room state
// on every call; nothing is persisted.
type CostService struct {
	facilityRepo repositories.FacilityRepository
	roomRepo     repositories.RoomRepository
	table        entities.CostTable
}

// NewCostService creates a new cost service from the configured table
func NewCostService(
	facilityRepo repositories.FacilityRepository,
	roomRepo repositories.RoomRepository,
	costs config.CostConfig,
) *CostService {
	return &CostService{
		facilityRepo: facilityRepo,
		roomRepo:     roomRepo,
		table: entities.CostTable{
			entities.CostRent:          costs.Rent,
			entities.CostUtilities:     costs.Utilities,
			entities.CostCareAllowance: costs.CareAllowance,
			entities.CostCatering:      costs.Catering,
			entities.CostInvestment:    costs.Investment,
		},
	}
}

// FacilityCost builds the cost report for one facility
func (s *CostService) FacilityCost(ctx context.Context, facilityID string) (*entities.FacilityCostReport, error) {
	facility, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	counts, err := s.roomRepo.CountByStatus(ctx, facility.ID)
	if err != nil {
		return nil, err
	}

	return s.report(facility, counts.Occupied), nil
}

// PortfolioCost aggregates the cost reports of all facilities
func (s *CostService) PortfolioCost(ctx context.Context) (*entities.PortfolioCostReport, error) {
	facilities, err := s.facilityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	portfolio := &entities.PortfolioCostReport{
		Facilities: make([]entities.FacilityCostSummary, 0, len(facilities)),
	}
	for _, facility := range facilities {
		counts, err := s.roomRepo.CountByStatus(ctx, facility.ID)
		if err != nil {
			return nil, err
		}
		report := s.report(facility, counts.Occupied)

		portfolio.Facilities = append(portfolio.Facilities, entities.FacilityCostSummary{
			FacilityID:       report.FacilityID,
			FacilityName:     report.FacilityName,
			MonthlyTotal:     report.MonthlyTotal,
			OccupancyPercent: report.OccupancyPercent,
		})
		portfolio.MonthlyTotal += report.MonthlyTotal
		portfolio.YearlyTotal += report.YearlyTotal
		portfolio.LostRevenue += report.LostRevenue
		portfolio.Residents += report.OccupiedRooms
		portfolio.Capacity += report.Capacity
	}

	if portfolio.Capacity > 0 {
		portfolio.OccupancyPercent = float64(portfolio.Residents) / float64(portfolio.Capacity) * 100
	}

	return portfolio, nil
}

func (s *CostService) report(facility *entities.Facility, occupied int) *entities.FacilityCostReport {
	report := &entities.FacilityCostReport{
		FacilityID:    facility.ID,
		FacilityName:  facility.Name,
		OccupiedRooms: occupied,
		Capacity:      facility.Capacity,
		Breakdown:     make(map[entities.CostCategory]entities.CostLine, len(entities.CostCategories)),
	}

	vacant := facility.Capacity - occupied
	if vacant < 0 {
		vacant = 0
	}

	for _, category := range entities.CostCategories {
		perRoom := s.table[category]
		line := entities.CostLine{
			PerRoom: perRoom,
			Total:   perRoom * float64(occupied),
		}
		report.Breakdown[category] = line
		report.MonthlyTotal += line.Total
		report.LostRevenue += perRoom * float64(vacant)
	}
	report.YearlyTotal = report.MonthlyTotal * 12

	if facility.Capacity > 0 {
		report.OccupancyPercent = float64(occupied) / float64(facility.Capacity) * 100
	}

	return report
}
