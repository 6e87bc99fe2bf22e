package common_tools

import (
	"fmt"
	"math/rand"
	"time"
)

// Coordinates is a WGS84 position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client is one entry in the sales client directory
type Client struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Contact     string      `json:"contact"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Priority    string      `json:"priority"`
}

// Location is a named place with an address
type Location struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// Sample client data with addresses that resolve in Azure Maps
var SampleClients = []Client{
	{
		ID:          "CL001",
		Name:        "Swiss Banking Corp",
		Contact:     "Thomas Mueller",
		Address:     "Paradeplatz 8, 8001 Zürich",
		Coordinates: Coordinates{Latitude: 47.369800, Longitude: 8.539185},
		Priority:    "high",
	},
	{
		ID:          "CL002",
		Name:        "Alpine Solutions AG",
		Contact:     "Maria Bernhard",
		Address:     "Bahnhofstrasse 15, 3920 Zermatt",
		Coordinates: Coordinates{Latitude: 46.023731, Longitude: 7.747419},
		Priority:    "medium",
	},
	{
		ID:          "CL003",
		Name:        "Geneva Trading SA",
		Contact:     "Jean Dupont",
		Address:     "Rue du Rhône 30, 1204 Genève",
		Coordinates: Coordinates{Latitude: 46.203566, Longitude: 6.151768},
		Priority:    "high",
	},
	{
		ID:          "CL004",
		Name:        "Basel Pharma Group",
		Contact:     "Anna Keller",
		Address:     "Aeschenvorstadt 55, 4051 Basel",
		Coordinates: Coordinates{Latitude: 47.551018, Longitude: 7.592678},
		Priority:    "medium",
	},
	{
		ID:          "CL005",
		Name:        "Lucerne Logistics GmbH",
		Contact:     "Peter Brunner",
		Address:     "Pilatusstrasse 1, 6003 Luzern",
		Coordinates: Coordinates{Latitude: 47.049850, Longitude: 8.306600},
		Priority:    "low",
	},
}

// OfficeLocation is the starting and ending point of every sales day
var OfficeLocation = Location{
	Name:        "Office",
	Address:     "Stockerstrasse 9, 8002 Zürich",
	Coordinates: Coordinates{Latitude: 47.366374, Longitude: 8.536213},
}

// DaySchedule is the simulated API response for today's planned visits
type DaySchedule struct {
	Date    string   `json:"date"`
	Office  Location `json:"office"`
	Clients []Client `json:"clients"`
}

// ClientDetails extends the directory entry with CRM-style context
type ClientDetails struct {
	Client
	LastVisit       string  `json:"last_visit"`
	TotalPurchases  float64 `json:"total_purchases"`
	ActiveContracts int     `json:"active_contracts"`
	Notes           string  `json:"notes"`
}

var visitNotes = []string{
	"Interested in new product line",
	"Looking to expand current services",
	"Contract renewal coming up",
	"Recently upgraded their subscription",
	"Has open support tickets",
}

// GetTodaysClients simulates an API call for today's planned client visits.
// The selection is random but seeded from the date so repeated calls on the
// same day agree.
func GetTodaysClients(now time.Time, count int) DaySchedule {
	if count < 2 {
		count = 2
	}
	if count > len(SampleClients) {
		count = len(SampleClients)
	}

	seed := int64(now.Year()*10000 + int(now.Month())*100 + now.Day())
	rng := rand.New(rand.NewSource(seed))

	perm := rng.Perm(len(SampleClients))
	clients := make([]Client, 0, count)
	for _, idx := range perm[:count] {
		clients = append(clients, SampleClients[idx])
	}

	return DaySchedule{
		Date:    now.Format("2006-01-02"),
		Office:  OfficeLocation,
		Clients: clients,
	}
}

// GetClientDetails simulates a CRM lookup for a single client.
func GetClientDetails(clientID string, now time.Time) (ClientDetails, error) {
	for _, client := range SampleClients {
		if client.ID == clientID {
			seed := int64(now.Year()*10000+int(now.Month())*100+now.Day()) + int64(len(clientID))
			rng := rand.New(rand.NewSource(seed))

			daysAgo := 15 + rng.Intn(46)
			lastVisit := now.AddDate(0, 0, -daysAgo)

			return ClientDetails{
				Client:          client,
				LastVisit:       lastVisit.Format("2006-01-02"),
				TotalPurchases:  5000 + rng.Float64()*45000,
				ActiveContracts: 1 + rng.Intn(3),
				Notes:           visitNotes[rng.Intn(len(visitNotes))],
			}, nil
		}
	}
	return ClientDetails{}, fmt.Errorf("client with ID %s not found", clientID)
}
