package remote

import (
	"strings"

	"github.com/lustre-atelier/backoffice/internal/resource"
)

const (
	LoginEndpoint       = "/auth/login"
	MediaUploadEndpoint = "/media/upload"

	itemSuffix   = "/{id}"
	statusSuffix = "/{id}/status"
)

func GetCollectionEndpoint(kind resource.Kind) string {
	return kind.Path
}

func GetItemEndpoint(kind resource.Kind) string {
	return strings.TrimSuffix(kind.Path, "/") + itemSuffix
}

func GetStatusEndpoint(kind resource.Kind) string {
	return strings.TrimSuffix(kind.Path, "/") + statusSuffix
}
