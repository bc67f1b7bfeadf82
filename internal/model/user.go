package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Capability is the marketplace role a user acts under.
type Capability string

const (
	CapabilityFarmer Capability = "farmer"
	CapabilityBuyer  Capability = "buyer"
	CapabilityNone   Capability = "none"
)

// User represents a marketplace account. A user may be a farmer, a buyer, both or neither.
type User struct {
	BaseModel
	Username    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	PhoneNumber string `gorm:"type:varchar(15)" json:"phone_number"`
	Location    string `gorm:"type:varchar(255);index" json:"location"`
	IsFarmer    bool   `gorm:"default:false" json:"is_farmer"`
	IsBuyer     bool   `gorm:"default:false" json:"is_buyer"`

	Products []FarmProduct `gorm:"foreignKey:FarmerID" json:"-"`
	Orders   []Order       `gorm:"foreignKey:BuyerID" json:"-"`
}

// Capability resolves the role flags into a single capability.
// Farmer takes precedence when both flags are set.
func (u *User) Capability() Capability {
	switch {
	case u.IsFarmer:
		return CapabilityFarmer
	case u.IsBuyer:
		return CapabilityBuyer
	default:
		return CapabilityNone
	}
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is the public profile shape.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsFarmer    bool   `json:"is_farmer"`
	IsBuyer     bool   `json:"is_buyer"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		IsFarmer:    u.IsFarmer,
		IsBuyer:     u.IsBuyer,
		PhoneNumber: u.PhoneNumber,
		Location:    u.Location,
	}
}
