package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Inquiry   *InquiryHandler
	Concierge *ConciergeHandler
	Catalog   *CatalogHandler
}
