package domain

// Listing is the IDX/MLS feed payload. It only exists on the way in.
type Listing struct {
	ListingID     string         `json:"listingId"`
	Address       ListingAddress `json:"address"`
	Price         float64        `json:"price"`
	Bedrooms      float64        `json:"bedrooms"`
	Bathrooms     float64        `json:"bathrooms"`
	SquareFootage float64        `json:"squareFootage"`
	PropertyType  string         `json:"propertyType"`
	YearBuilt     int            `json:"yearBuilt"`
	Description   string         `json:"description"`
	Features      []string       `json:"features"`
	Status        Status         `json:"status"`
	DaysOnMarket  int            `json:"daysOnMarket"`
	Photos        []Photo        `json:"photos"`
	ListingAgent  *Agent         `json:"listingAgent"`
	Featured      bool           `json:"featured"`
}

type ListingAddress struct {
	StreetNumber string `json:"streetNumber"`
	StreetName   string `json:"streetName"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	FullAddress  string `json:"fullAddress"`
}

type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}
