package models

import "time"

const (
	BadgeFoundingMember    = "Founding Member"
	BadgeClubExplorer      = "Club Explorer"
	BadgeCampusSocialite   = "Campus Socialite"
	BadgeActiveParticipant = "Active Participant"
	BadgeEventEnthusiast   = "Event Enthusiast"
	BadgeEventOrganizer    = "Event Organizer"
	BadgeForumPioneer      = "Forum Pioneer"
)

type Badge struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IconClass   string `json:"icon_class" db:"icon_class"`

	AwardedAt *time.Time `json:"awarded_at,omitempty" db:"awarded_at"`
}
