package store

import (
	"github.com/lustre-atelier/backoffice/internal/remote"
	"github.com/lustre-atelier/backoffice/internal/resource"
)

// Reducers run under the store lock, after the server confirmed the intent.

func reduceFetched[T resource.Resource](s *State[T], page *remote.Page[T]) {
	items := make([]T, 0, len(page.Items))
	seen := make(map[resource.ID]struct{}, len(page.Items))
	for _, item := range page.Items {
		if _, dup := seen[item.ResourceID()]; dup {
			continue
		}
		seen[item.ResourceID()] = struct{}{}
		items = append(items, item)
	}
	s.Items = items
	s.Total = page.Total
	s.CurrentPage = page.CurrentPage
	s.TotalPages = page.TotalPages
}

// reduceCreated puts the new item first. An entry already holding the same id is dropped.
func reduceCreated[T resource.Resource](s *State[T], item T) {
	items := make([]T, 0, len(s.Items)+1)
	items = append(items, item)
	for _, existing := range s.Items {
		if existing.ResourceID() != item.ResourceID() {
			items = append(items, existing)
		}
	}
	s.Items = items
	s.Total++
}

// reduceReplaced swaps the item with the same id in place. Unknown ids are ignored.
func reduceReplaced[T resource.Resource](s *State[T], item T) {
	if i := indexOf(s.Items, item.ResourceID()); i >= 0 {
		items := make([]T, len(s.Items))
		copy(items, s.Items)
		items[i] = item
		s.Items = items
	}
}

// reduceDeleted removes the id from the items. Total is decremented even if the id was not loaded.
func reduceDeleted[T resource.Resource](s *State[T], id resource.ID) {
	if i := indexOf(s.Items, id); i >= 0 {
		items := make([]T, 0, len(s.Items)-1)
		items = append(items, s.Items[:i]...)
		items = append(items, s.Items[i+1:]...)
		s.Items = items
	}
	s.Total--
}
