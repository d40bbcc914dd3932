package models

// Requests for the event-study HTTP endpoints. Defined in domain for
// consistency and reuse; defaults mirror the standard hourly study setup.

type StudyRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required"`
	Benchmark  string `query:"benchmark" json:"benchmark"`
	EstStart   int    `query:"est_start" json:"est_start" default:"-240" validate:"lte=0"`
	EstEnd     int    `query:"est_end" json:"est_end" default:"-24" validate:"ltefield=EventEnd"`
	EventStart int    `query:"event_start" json:"event_start" default:"-24"`
	EventEnd   int    `query:"event_end" json:"event_end" default:"24" validate:"gtefield=EventStart"`
	Bootstrap  *bool  `query:"bootstrap" json:"bootstrap"`
	NBoot      int    `query:"n_boot" json:"n_boot" default:"1000" validate:"gte=1,lte=100000"`
	From       string `query:"from" json:"from"`
	To         string `query:"to" json:"to"`
	Async      bool   `query:"async" json:"async"`
}

type EventsRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}

type EventsBackfillRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
}

type BarsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1h 2h 4h 1d"`
	From     string `query:"from" json:"from"`
	To       string `query:"to" json:"to"`
	Limit    int    `query:"limit" json:"limit" default:"5000" validate:"gte=1,lte=50000"`
}
