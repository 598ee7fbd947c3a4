package domain

import "time"

// Publisher is a news outlet articles are attributed to. Articles reference
// publishers by name only; deleting a publisher leaves its articles intact.
type Publisher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"createdAt"`
}
