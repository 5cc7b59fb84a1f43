package models

// HubOverview is the landing page payload.
type HubOverview struct {
	UpcomingEvents []EventView     `json:"upcoming_events"`
	LatestNews     []News          `json:"latest_news"`
	Menu           *WeekMenu       `json:"menu"`
	Calendar       []CalendarEntry `json:"calendar"`
	MyClubs        []Club          `json:"my_clubs,omitempty"`
	MyBadges       []Badge         `json:"my_badges,omitempty"`
}
