package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a row in the USER table. Social accounts are identified by the
// (provider, provider_id) pair; local admin accounts use provider "local"
// with the email doubling as provider_id.
type User struct {
	UserUUID       string    `json:"user_uuid" gorm:"column:user_uuid;type:char(36);primaryKey"`
	Provider       string    `json:"provider" gorm:"type:varchar(20);not null;uniqueIndex:idx_provider_identity"`
	ProviderID     string    `json:"provider_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_provider_identity"`
	UserName       string    `json:"user_name" gorm:"type:varchar(50)"`
	Email          string    `json:"email" gorm:"type:varchar(50)"`
	HashedPassword string    `json:"-" gorm:"type:varchar(100)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "USER"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserUUID == "" {
		u.UserUUID = uuid.NewString()
	}
	return nil
}

// FindOrCreateByIdentity resolves a user from a provider identity, creating
// the row on first login. Resolution is idempotent: repeating the same
// (provider, providerID) pair always yields the same user.
func FindOrCreateByIdentity(db *gorm.DB, provider, providerID, name, email string) (*User, error) {
	var user User
	err := db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = User{
		Provider:   provider,
		ProviderID: providerID,
		UserName:   name,
		Email:      email,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetByProviderIdentity(db *gorm.DB, provider, providerID string) (*User, error) {
	var user User
	if err := db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetLocalByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("provider = ? AND email = ?", "local", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// NewLocalUser creates an admin account with a bcrypt-hashed password.
func NewLocalUser(db *gorm.DB, email, name, password string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Provider:       "local",
		ProviderID:     email,
		UserName:       name,
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
