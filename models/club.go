package models

import "time"

type Club struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	LeaderID    *int      `json:"leader_id,omitempty" db:"leader_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	MemberCount int   `json:"member_count" db:"-"`
	Leader      *User `json:"leader,omitempty" db:"-"`
}

// IsLedBy reports whether userID is the club's leader.
func (c *Club) IsLedBy(userID int) bool {
	return c.LeaderID != nil && *c.LeaderID == userID
}

// ClubDetail is the club page: the club plus its events split around now.
type ClubDetail struct {
	Club           *Club   `json:"club"`
	UpcomingEvents []Event `json:"upcoming_events"`
	PastEvents     []Event `json:"past_events"`
	IsMember       bool    `json:"is_member"`
	IsLeader       bool    `json:"is_leader"`
}
