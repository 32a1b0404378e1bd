package vehicles

// RegisterVehicleRequest represents the request to list a vehicle
type RegisterVehicleRequest struct {
	Type          string `json:"type" binding:"required,oneof=CAR MOTORBIKE BICYCLE"`
	Make          string `json:"make" binding:"max=50"`
	Model         string `json:"model" binding:"max=50"`
	PricePerDay   int64  `json:"pricePerDay" binding:"required,min=1"`
	DepositAmount int64  `json:"depositAmount" binding:"min=0"`
}

// SetListedRequest toggles a vehicle's availability for new bookings
type SetListedRequest struct {
	Listed *bool `json:"listed" binding:"required"`
}
