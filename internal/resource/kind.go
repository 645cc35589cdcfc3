package resource

import (
	"fmt"
	"strings"
)

// Kind describes one resource type managed by the back-office.
type Kind struct {
	Name     string   // Singular name, e.g. "blog"
	Plural   string   // Plural name, e.g. "blogs"
	Path     string   // Base path of the collection on the API, e.g. "/blogs"
	Statuses []Status // Closed set of statuses, first one is the default for new resources
}

// ValidStatus returns true if the status belongs to the kind's status set.
func (k Kind) ValidStatus(s Status) bool {
	for _, st := range k.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// StatusNames returns the status set joined with '|'.
func (k Kind) StatusNames() string {
	names := make([]string, len(k.Statuses))
	for i, s := range k.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, "|")
}

// Message returns the fixed feedback message of an intent outcome.
func (k Kind) Message(intent string, ok bool) string {
	if !ok {
		switch intent {
		case "fetchList":
			return fmt.Sprintf("Failed to fetch %s", k.Plural)
		case "setStatus":
			return fmt.Sprintf("Failed to update %s status", k.Name)
		default:
			return fmt.Sprintf("Failed to %s %s", intent, k.Name)
		}
	}

	title := strings.ToUpper(k.Name[:1]) + k.Name[1:]
	switch intent {
	case "create":
		return title + " created successfully"
	case "update":
		return title + " updated successfully"
	case "delete":
		return title + " deleted successfully"
	case "setStatus":
		return title + " status updated successfully"
	default:
		return ""
	}
}

var (
	BlogKind = Kind{
		Name:     "blog",
		Plural:   "blogs",
		Path:     "/blogs",
		Statuses: []Status{BlogDraft, BlogPublished, BlogArchived},
	}
	ProductKind = Kind{
		Name:     "product",
		Plural:   "products",
		Path:     "/products",
		Statuses: []Status{ProductActive, ProductInactive, ProductArchived},
	}
	BannerKind = Kind{
		Name:     "banner",
		Plural:   "banners",
		Path:     "/banners",
		Statuses: []Status{BannerActive, BannerInactive},
	}
	AppointmentKind = Kind{
		Name:     "appointment",
		Plural:   "appointments",
		Path:     "/appointments",
		Statuses: []Status{AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled},
	}
)

// Kinds lists every resource kind the back-office manages.
var Kinds = []Kind{BlogKind, ProductKind, BannerKind, AppointmentKind}
