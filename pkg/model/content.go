package model

import (
	"time"

	"gorm.io/gorm"
)

// Feature types.
const (
	FeatureCBT     = "ctb"
	FeatureLive    = "LIVE"
	FeatureGeneral = "GEN"
)

// Feature is a platform capability shown on the marketing site.
type Feature struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon" gorm:"size:50"`
	FeatureType string `json:"feature_type" gorm:"size:10;index"`
	Order       int    `json:"order" gorm:"column:sort_order;default:0"`
}

func (Feature) TableName() string {
	return "features"
}

// Client is an institution using the platform.
type Client struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Name             string    `json:"name" gorm:"size:200"`
	Email            string    `json:"email" gorm:"size:254;uniqueIndex"`
	Phone            string    `json:"phone" gorm:"size:20"`
	InstitutionName  string    `json:"institution_name" gorm:"size:200"`
	Country          string    `json:"country" gorm:"size:100"`
	Currency         string    `json:"currency" gorm:"size:3"`
	NeedsCBT         bool      `json:"needs_ctb"`
	NeedsLiveClasses bool      `json:"needs_live_classes"`
	PrimaryColor     string    `json:"primary_color" gorm:"size:7"`
	SecondaryColor   string    `json:"secondary_color" gorm:"size:7"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

// Testimonial is a client quote. Only featured ones are published.
type Testimonial struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ClientID   string    `json:"-" gorm:"size:36;index"`
	Client     Client    `json:"client" gorm:"foreignKey:ClientID"`
	Content    string    `json:"content" gorm:"type:text"`
	Rating     int       `json:"rating"`
	IsFeatured bool      `json:"is_featured" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}

// Contact subjects.
var ContactSubjects = []string{
	"General Inquiry",
	"Pricing Information",
	"Technical Support",
	"Customization Request",
	"Partnership Inquiry",
	"Demo Request",
}

// Contact is a contact form submission.
type Contact struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	Email       string     `json:"email" gorm:"size:254;not null"`
	Institution string     `json:"institution,omitempty" gorm:"size:200"`
	Phone       string     `json:"phone,omitempty" gorm:"size:20"`
	Subject     string     `json:"subject" gorm:"size:50"`
	Message     string     `json:"message" gorm:"type:text"`
	IsRead      bool       `json:"is_read"`
	IsReplied   bool       `json:"is_replied"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}
