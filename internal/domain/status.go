package domain

// Status is the raw listing state as stored. Legacy records carry display
// labels directly; IDX listings carry MLS codes.
type Status string

const (
	StatusForSale Status = "For Sale"
	StatusForRent Status = "For Rent"
	StatusActive  Status = "Active"
	StatusRental  Status = "Rental"
	StatusPending Status = "Pending"
	StatusSold    Status = "Sold"
)

// Display maps a raw status to the label shown to visitors.
func (s Status) Display() Status {
	switch s {
	case StatusActive:
		return StatusForSale
	case StatusRental:
		return StatusForRent
	default:
		return s
	}
}

// IsRental reports whether the price is a monthly rent.
func (s Status) IsRental() bool { return s.Display() == StatusForRent }
