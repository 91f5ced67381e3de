package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

const boardMaxRows = 30

// InterfaceBoardService defines the arrivals/departures board operations
type InterfaceBoardService interface {
	FetchBoard() (*Board, error)
}

// Board holds the scraped arrivals and departures tables
type Board struct {
	Arrivals   []models.Flight `json:"arrivals"`
	Departures []models.Flight `json:"departures"`
}

// BoardService scrapes the published arrivals/departures board.
// Board rows carry scheduled/actual times and status strings that the radar
// feeds lack.
type BoardService struct {
	Config *config.Config
	Client *http.Client
}

// NewBoardService creates a new board service
func NewBoardService(cfg *config.Config) *BoardService {
	return &BoardService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchBoard fetches both board pages. A page that fails to load or parse
// contributes an empty list; the other page's rows are kept.
func (s *BoardService) FetchBoard() (*Board, error) {
	board := &Board{
		Arrivals:   []models.Flight{},
		Departures: []models.Flight{},
	}

	arrivals, err := s.fetchPage(s.Config.BoardArrivalsURL, models.FlightTypeArrival)
	if err != nil {
		config.Warning("could not parse board arrivals: %v", err)
	} else {
		board.Arrivals = arrivals
	}

	departures, err := s.fetchPage(s.Config.BoardDeparturesURL, models.FlightTypeDeparture)
	if err != nil {
		config.Warning("could not parse board departures: %v", err)
	} else {
		board.Departures = departures
	}

	config.Info("fetched %d arrivals, %d departures from board", len(board.Arrivals), len(board.Departures))
	return board, nil
}

func (s *BoardService) fetchPage(pageURL, flightType string) ([]models.Flight, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building board request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching board page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("board page returned status code %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing board page: %w", err)
	}

	table := findFirstElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no table found in board page")
	}

	rows := collectElements(table, "tr")
	if len(rows) <= 1 {
		return []models.Flight{}, nil
	}

	// Skip the header row
	flights := make([]models.Flight, 0, boardMaxRows)
	for _, row := range rows[1:] {
		if len(flights) >= boardMaxRows {
			break
		}

		cols := collectElements(row, "td")
		// Columns: flight, city, airline, date, scheduled, actual, status
		if len(cols) < 7 {
			continue
		}

		flightNumber := nodeText(cols[0])
		city := nodeText(cols[1])
		airline := nodeText(cols[2])
		scheduled := nodeText(cols[4])
		actual := nodeText(cols[5])
		status := nodeText(cols[6])

		if flightNumber == "" || city == "" {
			continue
		}
		if airline == "" {
			airline = "Unknown"
		}
		if scheduled == "" {
			scheduled = "N/A"
		}
		if actual == "" {
			actual = scheduled
		}
		if status == "" {
			status = "Unknown"
		}

		flight := models.Flight{
			FlightNumber:  flightNumber,
			Airline:       airline,
			FlightType:    flightType,
			ScheduledTime: scheduled,
			ActualTime:    actual,
			Status:        status,
			Source:        "Airportia",
		}
		if flightType == models.FlightTypeArrival {
			flight.Origin = city
			flight.Destination = s.Config.AirportCode
		} else {
			flight.Origin = s.Config.AirportCode
			flight.Destination = city
		}

		flights = append(flights, flight)
	}

	return flights, nil
}

// findFirstElement returns the first element node with the given tag
func findFirstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectElements returns every element node with the given tag below n
func collectElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
			continue
		}
		out = append(out, collectElements(c, tag)...)
	}
	return out
}

// nodeText returns the trimmed text content of a node
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
