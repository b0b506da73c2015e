package cache

import "fmt"

// SearchKey returns the fast store key for a normalized search query.
func SearchKey(query string) string {
	return "search:" + query
}

// PlaceKey returns the fast store key for place details.
func PlaceKey(placeID string) string {
	return "place:" + placeID
}

// PhotoKey returns the fast store key for a photo at a given width.
func PhotoKey(ref string, maxWidth int) string {
	return fmt.Sprintf("photo:%s:%d", ref, maxWidth)
}
