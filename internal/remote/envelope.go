package remote

// Page is one page of a collection as returned by the list endpoint.
type Page[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	TotalPages  int
}

type listEnvelope[T any] struct {
	Data struct {
		Items []T `json:"items"`
	} `json:"data"`
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

type itemEnvelope[T any] struct {
	Data struct {
		Item *T `json:"item"`
	} `json:"data"`
}

type uploadEnvelope struct {
	Data struct {
		FileURL string `json:"fileUrl"`
	} `json:"data"`
}
