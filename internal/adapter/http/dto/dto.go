package dto

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login. Identifier is email or phone.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string       `json:"token"`
	Expiry int64        `json:"expiry"` // Unix timestamp
	User   UserResponse `json:"user"`
}

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	WalletBalance int64  `json:"wallet_balance"`
}

// CreateRequestRequest is the request body for opening a service request.
type CreateRequestRequest struct {
	ServiceCategoryID string  `json:"service_category_id" binding:"required,uuid"`
	UserLocationID    string  `json:"user_location_id" binding:"required,uuid"`
	Description       string  `json:"description" binding:"required,min=1,max=2000"`
	RequestedAt       *int64  `json:"requested_at,omitempty"` // Unix timestamp
	PhotoURL          *string `json:"photo_url,omitempty" binding:"omitempty,safe_url"`
	PaymentMethod     string  `json:"payment_method" binding:"required,oneof=WALLET CASH"`
}

// AdvanceRequestRequest is the request body for a provider status update.
type AdvanceRequestRequest struct {
	Status      string `json:"status" binding:"required,oneof=IN_PROGRESS COMPLETED"`
	FinalAmount *int64 `json:"final_amount,omitempty" binding:"omitempty,gt=0"`
}

// AmountRequest is the request body for operations that carry one amount.
type AmountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// TopUpRequest is the request body for the admin user top-up.
type TopUpRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// AdjustRequest is the request body for the admin provider adjustment.
type AdjustRequest struct {
	ProviderID string `json:"provider_id" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

// ProviderEarningRequest is the request body for the admin manual provider
// earning credit tied to a request.
type ProviderEarningRequest struct {
	ProviderID string `json:"provider_id" binding:"required,uuid"`
	RequestID  string `json:"request_id" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

// ProviderRegisterRequest is the request body for provider registration.
type ProviderRegisterRequest struct {
	ServiceCategoryID string   `json:"service_category_id" binding:"required,uuid"`
	Latitude          *float64 `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	AddressLine       *string  `json:"address_line,omitempty" binding:"omitempty,max=300"`
	ServiceRadiusKm   *float64 `json:"service_radius_km,omitempty" binding:"omitempty,gt=0"`
	ExperienceYears   *int     `json:"experience_years,omitempty" binding:"omitempty,gte=0"`
	Bio               *string  `json:"bio,omitempty" binding:"omitempty,max=2000"`
}

// ProviderUpdateRequest is the request body for partial provider updates.
type ProviderUpdateRequest struct {
	ServiceCategoryID *string  `json:"service_category_id,omitempty" binding:"omitempty,uuid"`
	Latitude          *float64 `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	AddressLine       *string  `json:"address_line,omitempty" binding:"omitempty,max=300"`
	ServiceRadiusKm   *float64 `json:"service_radius_km,omitempty" binding:"omitempty,gt=0"`
	ExperienceYears   *int     `json:"experience_years,omitempty" binding:"omitempty,gte=0"`
	Bio               *string  `json:"bio,omitempty" binding:"omitempty,max=2000"`
}

// CategoryRequest is the request body for category create/update.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	BasePrice   int64   `json:"base_price" binding:"required,gt=0"`
	Icon        *string `json:"icon,omitempty" binding:"omitempty,safe_url"`
}

// CategoryActiveRequest toggles a category's visibility.
type CategoryActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// LocationRequest is the request body for location create/update.
type LocationRequest struct {
	LocationName    *string `json:"location_name,omitempty" binding:"omitempty,max=100"`
	Latitude        float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Street          *string `json:"street,omitempty" binding:"omitempty,max=300"`
	BuildingFloor   *string `json:"building_floor,omitempty" binding:"omitempty,max=100"`
	AdditionalNotes *string `json:"additional_notes,omitempty" binding:"omitempty,max=1000"`
	IsDefault       bool    `json:"is_default"`
}

// RateRequest is the request body for rating a completed request.
type RateRequest struct {
	ServiceRequestID string  `json:"service_request_id" binding:"required,uuid"`
	Score            int     `json:"score" binding:"required,min=1,max=5"`
	Comment          *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// AuditBalanceRequest selects which cached balance to audit.
type AuditBalanceRequest struct {
	UserID     *string `json:"user_id,omitempty" binding:"omitempty,uuid"`
	ProviderID *string `json:"provider_id,omitempty" binding:"omitempty,uuid"`
}
