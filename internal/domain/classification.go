package domain

// Classification is the structured metadata the classifier derives from
// raw issue text.
type Classification struct {
	Summary             string         `json:"summary"`
	Category            string         `json:"category"`
	Priority            TicketPriority `json:"priority"`
	Sentiment           Sentiment      `json:"sentiment"`
	SuggestedResolution string         `json:"suggested_resolution"`
	AutoResolvable      bool           `json:"auto_resolvable"`
}
