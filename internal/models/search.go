package models

// SearchResponse is the combined search result. Both lists are always non-nil.
type SearchResponse struct {
	Products    []*Product   `json:"products"`
	Accessories []*Accessory `json:"accessories"`
}

// NewSearchResponse returns an empty response with non-nil lists.
func NewSearchResponse() *SearchResponse {
	return &SearchResponse{
		Products:    []*Product{},
		Accessories: []*Accessory{},
	}
}

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Products    int `json:"products"`
	Accessories int `json:"accessories"`
	Categories  int `json:"categories"`
	Skipped     int `json:"skipped"`
}
