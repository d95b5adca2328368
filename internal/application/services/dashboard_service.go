package services

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
)

// earlyStages are the intake stages where an urgent prospect still waiting
// needs staff attention.
var earlyStages = map[entities.ResidentStatus]bool{
	entities.StatusNew:             true,
	entities.StatusInitialContact:  true,
	entities.StatusViewingSet:      true,
	entities.StatusDocumentsSent:   true,
	entities.StatusDecisionPending: true,
}

// DashboardService assembles the intake dashboard from current resident
// and room state.
type DashboardService struct {
	residentRepo repositories.ResidentRepository
	roomRepo     repositories.RoomRepository
	facilityRepo repositories.FacilityRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	residentRepo repositories.ResidentRepository,
	roomRepo repositories.RoomRepository,
	facilityRepo repositories.FacilityRepository,
) *DashboardService {
	return &DashboardService{
		residentRepo: residentRepo,
		roomRepo:     roomRepo,
		facilityRepo: facilityRepo,
	}
}

// Dashboard builds the intake board summary
func (s *DashboardService) Dashboard(ctx context.Context) (*entities.IntakeDashboard, error) {
	residents, err := s.residentRepo.List(ctx, repositories.ResidentFilter{})
	if err != nil {
		return nil, err
	}

	dashboard := &entities.IntakeDashboard{
		TotalResidents: len(residents),
		ActionRequired: []entities.ActionItem{},
	}

	counts := make(map[entities.ResidentStatus]int)
	urgent := make(map[entities.ResidentStatus]int)
	for _, resident := range residents {
		counts[resident.Status]++
		isUrgent := resident.Urgency == entities.UrgencyUrgent || resident.Urgency == entities.UrgencyHigh
		if isUrgent {
			urgent[resident.Status]++
		}

		switch {
		case resident.Status == entities.StatusResident || resident.Status == entities.StatusMoveOutPlanned:
			dashboard.Residents++
		case !resident.Status.IsTerminal():
			dashboard.Prospects++
		}

		if isUrgent && earlyStages[resident.Status] {
			dashboard.ActionRequired = append(dashboard.ActionRequired, entities.ActionItem{
				ResidentID: resident.ID,
				Name:       resident.FullName(),
				Status:     resident.Status,
				Urgency:    resident.Urgency,
			})
		}
	}

	dashboard.Pipeline = make([]entities.PipelineStage, 0, len(entities.PipelineOrder))
	for _, status := range entities.PipelineOrder {
		dashboard.Pipeline = append(dashboard.Pipeline, entities.PipelineStage{
			Status: status,
			Label:  entities.StatusLabels[status],
			Count:  counts[status],
			Urgent: urgent[status],
		})
	}

	facilities, err := s.facilityRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, facility := range facilities {
		roomCounts, err := s.roomRepo.CountByStatus(ctx, facility.ID)
		if err != nil {
			return nil, err
		}
		dashboard.FreeRooms += roomCounts.Free
	}

	return dashboard, nil
}
