package resource

import "time"

const (
	BannerActive   Status = "active"
	BannerInactive Status = "inactive"
)

// Banner is a promotional banner shown on the storefront.
type Banner struct {
	ID       ID         `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	ImageURL string     `json:"imageUrl,omitempty"`
	Link     string     `json:"link,omitempty"`
	Position int        `json:"position"`
	StartsAt *time.Time `json:"startsAt,omitempty"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	Status   Status     `json:"status"`
}

func (b Banner) ResourceID() ID {
	return b.ID
}

func (b Banner) ResourceStatus() Status {
	return b.Status
}

// Live returns true if the banner is active and now is inside its display window.
func (b Banner) Live(now time.Time) bool {
	if b.Status != BannerActive {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && !now.Before(*b.EndsAt) {
		return false
	}
	return true
}
