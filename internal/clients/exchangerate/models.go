package exchangerate

import "fmt"

// NetworkError is returned when a rate lookup fails in transit or the
// provider answers with a non-success status
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("rate lookup %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// latestResponse is the provider's latest-rates payload, a base currency and
// a map of target currency code to rate
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// seriesResponse is the history provider's payload: date keyed maps of
// currency code to rate
type seriesResponse struct {
	Base  string                        `json:"base"`
	Rates map[string]map[string]float64 `json:"rates"`
}
