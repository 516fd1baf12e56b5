package event

import "fmt"

// Game identifies which wiki a record was scraped from.
type Game string

const (
	GameGenshin  Game = "genshin"
	GameStarRail Game = "starrail"
)

// Valid reports whether g is one of the known game tags.
func (g Game) Valid() bool {
	return g == GameGenshin || g == GameStarRail
}

// Event represents one live-service event scraped from a wiki page.
// Identity is the (Name, Game) pair; ImageURL and the time bounds are
// mutable across scrape cycles.
type Event struct {
	Name     string `bson:"name" json:"name"`
	Game     Game   `bson:"game" json:"game"`
	ImageURL string `bson:"imageUrl" json:"imageUrl"`

	// Unix-millisecond bounds, present only for upcoming Star Rail
	// events. 0 marks a bound the source published but we could not
	// parse; both absent means no schedule data at all.
	StartTime int64 `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   int64 `bson:"endTime,omitempty" json:"endTime,omitempty"`
}

// HasSchedule reports whether the event carries any time window data.
func (e *Event) HasSchedule() bool {
	return e.StartTime != 0 || e.EndTime != 0
}

// Key returns the identity string used in logs and the memory store.
func (e *Event) Key() string {
	return fmt.Sprintf("%s|%s", e.Name, e.Game)
}
