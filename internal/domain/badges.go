package domain

// Badge is static reference data describing an achievement.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Points      int     `json:"points"`
}

const (
	BadgeMatchingMaster BadgeID = 1
	BadgeQuizWhiz       BadgeID = 2
	BadgeExplorer       BadgeID = 3
	BadgeSpeedster      BadgeID = 4
	BadgePracticePro    BadgeID = 5
)

var badgeCatalog = []Badge{
	{ID: BadgeMatchingMaster, Name: "Matching Master", Description: "Matched every property with its formula", Icon: "🧩", Points: 10},
	{ID: BadgeQuizWhiz, Name: "Quiz Whiz", Description: "Finished the true or false quiz", Icon: "✅", Points: 15},
	{ID: BadgeExplorer, Name: "Property Explorer", Description: "Completed the math adventure", Icon: "🗺️", Points: 20},
	{ID: BadgeSpeedster, Name: "Speedster", Description: "Identified every property before time ran out", Icon: "⚡", Points: 25},
	{ID: BadgePracticePro, Name: "Practice Pro", Description: "Solved a set of practice problems", Icon: "🏅", Points: 10},
}

// BadgeCatalog is the immutable set of badges that can be awarded.
type BadgeCatalog struct {
	byID  map[BadgeID]Badge
	order []BadgeID
}

// DefaultBadges returns the built-in catalog.
func DefaultBadges() *BadgeCatalog {
	return NewBadgeCatalog(badgeCatalog)
}

// NewBadgeCatalog builds a catalog from the given definitions. Later duplicates win.
func NewBadgeCatalog(badges []Badge) *BadgeCatalog {
	c := &BadgeCatalog{byID: make(map[BadgeID]Badge, len(badges))}
	for _, b := range badges {
		if _, ok := c.byID[b.ID]; !ok {
			c.order = append(c.order, b.ID)
		}
		c.byID[b.ID] = b
	}
	return c
}

// Lookup returns the badge definition for id.
func (c *BadgeCatalog) Lookup(id BadgeID) (Badge, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// All returns the badges in catalog order.
func (c *BadgeCatalog) All() []Badge {
	out := make([]Badge, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
