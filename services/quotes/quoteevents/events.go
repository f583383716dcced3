package quoteevents

const (
	TopicName          = "quote"
	quoteRequestedName = TopicName + ".requested"
)

type QuoteRequested struct {
	QuoteUID      string
	CustomerEmail string
	EventDate     string
	GuestCount    int
}

func (e QuoteRequested) GetEventTypeName() string {
	return quoteRequestedName
}

func (e QuoteRequested) GetAggregateName() string {
	return e.QuoteUID
}
