package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/domusvita/careflow/backend/internal/adapters/database"
	"github.com/domusvita/careflow/backend/internal/application/services"
	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	"github.com/domusvita/careflow/backend/pkg/config"
)

type facilitySeed struct {
	id          string
	shortName   string
	name        string
	street      string
	postalCode  string
	capacity    int
	description string
}

var facilitySeeds = []facilitySeed{
	{"wg-sterndamm", "Sterndamm", "Pflegewohngemeinschaft Sterndamm", "Sterndamm 10", "12109", 3, "Kleine Wohngemeinschaft mit familiärem Charakter"},
	{"wg-kupferkessel", "Kupferkessel", "WG Kupferkessel & Mietwohnungen", "Kupferkesselweg 4", "12435", 8, "Wohngemeinschaft im Erdgeschoss, Mietwohnungen darüber"},
	{"wg-kupferkessel-klein", "Kupferkessel Klein", "WG Kupferkessel Klein", "Kupferkesselweg 4a", "12435", 4, "Kleine Einheit im Nebengebäude"},
	{"wg-drachenwiese", "Drachenwiese", "WG Drachenwiese", "Drachenwiesenweg 17", "12524", 12, "Größte Wohngemeinschaft mit Gartenzugang"},
	{"wg-drachenblick", "Drachenblick", "WG Drachenblick", "Drachenwiesenweg 19", "12524", 6, "Obergeschoss-Wohngemeinschaft mit Blick auf die Drachenwiese"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	facilityRepo := database.NewFacilityAdapter(pgClient)
	roomRepo := database.NewRoomAdapter(pgClient)
	residentRepo := database.NewResidentAdapter(pgClient)
	activityRepo := database.NewActivityAdapter(pgClient)
	communicationRepo := database.NewCommunicationAdapter(pgClient)
	documentRepo := database.NewDocumentAdapter(pgClient)

	allocationService := services.NewAllocationService(residentRepo, roomRepo, activityRepo)
	residentService := services.NewResidentService(
		residentRepo,
		roomRepo,
		facilityRepo,
		activityRepo,
		communicationRepo,
		documentRepo,
		allocationService,
		cfg.Pipeline.StrictTransitions,
	)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				documents,
				communications,
				activities,
				residents,
				rooms,
				facilities
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed facilities and their rooms
	now := time.Now()
	roomIDs := make(map[string][]string)
	for _, seed := range facilitySeeds {
		floorPlan := fmt.Sprintf("https://static.domusvita.de/floorplans/%s.svg", seed.id)
		facility := &entities.Facility{
			ID:        seed.id,
			ShortName: seed.shortName,
			Name:      seed.name,
			Address: entities.Address{
				Street:     seed.street,
				City:       "Berlin",
				PostalCode: seed.postalCode,
				Country:    "DE",
			},
			Capacity:     seed.capacity,
			FloorPlanURL: &floorPlan,
			Description:  seed.description,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := facilityRepo.Create(ctx, facility); err != nil {
			log.Printf("Failed to create facility %s: %v", seed.shortName, err)
			continue
		}

		// Rooms are laid out in a simple grid for the floor plan view
		for i := 0; i < seed.capacity; i++ {
			room := &entities.Room{
				ID:         uuid.New().String(),
				FacilityID: seed.id,
				Number:     fmt.Sprintf("%d", i+1),
				AreaSqm:    14 + float64(i%3)*2,
				Status:     entities.RoomStatusFree,
				Layout: entities.RoomLayout{
					PositionX: float64(i%4) * 120,
					PositionY: float64(i/4) * 100,
					Width:     110,
					Height:    90,
				},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := roomRepo.Create(ctx, room); err != nil {
				log.Printf("Failed to create room %s in %s: %v", room.Number, seed.shortName, err)
				continue
			}
			roomIDs[seed.id] = append(roomIDs[seed.id], room.ID)
		}
		log.Printf("Seeded facility %s with %d rooms", seed.shortName, seed.capacity)
	}

	// 2. Seed sample residents across the pipeline
	careLevel3 := 3
	careLevel2 := 2
	residents := []*entities.Resident{
		{
			FirstName: "Margarete",
			LastName:  "Hoffmann",
			BirthDate: "1941-03-22",
			Gender:    "female",
			CareLevel: &careLevel3,
			EmergencyContact: entities.EmergencyContact{
				Name:         "Petra Hoffmann",
				Relationship: "daughter",
				Phone:        "+49 30 1234567",
				Email:        "petra.hoffmann@example.org",
			},
			IntakeSource:         "hospital social service",
			Urgency:              entities.UrgencyHigh,
			PreferredFacilityIDs: []string{"wg-drachenwiese", "wg-drachenblick"},
		},
		{
			FirstName: "Werner",
			LastName:  "Schulz",
			BirthDate: "1938-11-05",
			Gender:    "male",
			CareLevel: &careLevel2,
			EmergencyContact: entities.EmergencyContact{
				Name:         "Klaus Schulz",
				Relationship: "son",
				Phone:        "+49 30 7654321",
				Email:        "klaus.schulz@example.org",
			},
			IntakeSource:         "family inquiry",
			Urgency:              entities.UrgencyNormal,
			PreferredFacilityIDs: []string{"wg-sterndamm"},
		},
	}
	for _, resident := range residents {
		if err := residentService.Create(ctx, resident); err != nil {
			log.Printf("Failed to create resident %s: %v", resident.FullName(), err)
		}
	}

	// Move the first resident in so the dashboard has a current occupant
	if len(residents) > 0 && residents[0].ID != "" {
		if rooms := roomIDs["wg-drachenwiese"]; len(rooms) > 0 {
			if err := allocationService.Assign(ctx, residents[0].ID, rooms[0]); err != nil {
				log.Printf("Failed to assign seeded resident: %v", err)
			}
		}
	}

	log.Println("Seeding complete")
}
