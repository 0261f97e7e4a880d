package model

import (
	"time"

	"gorm.io/gorm"
)

// Proposal statuses.
const (
	ProposalPending   = "PENDING"
	ProposalGenerated = "GENERATED"
	ProposalSent      = "SENT"
	ProposalViewed    = "VIEWED"
	ProposalExpired   = "EXPIRED"
)

// ProposalRequest is a quote request and the fee computed for it.
type ProposalRequest struct {
	ID                string    `json:"id" gorm:"primaryKey;size:36"`
	Name              string    `json:"name" gorm:"size:200;not null"`
	Email             string    `json:"email" gorm:"size:254;not null"`
	Institution       string    `json:"institution" gorm:"size:200;not null"`
	Phone             string    `json:"phone" gorm:"size:20"`
	Country           string    `json:"country" gorm:"size:100;not null"`
	NeedsCBT          bool      `json:"needs_ctb"`
	NeedsLiveClasses  bool      `json:"needs_live_classes"`
	EstimatedStudents int       `json:"estimated_students"`
	EstimatedTeachers int       `json:"estimated_teachers"`
	PreferredColors   string    `json:"preferred_colors" gorm:"size:200"`
	HasLogo           bool      `json:"has_logo"`
	Currency          string    `json:"currency" gorm:"size:3"`
	DeploymentFee     string    `json:"deployment_fee" gorm:"size:100"`
	Status            string    `json:"status" gorm:"size:20;index"`
	IPAddress         string    `json:"ip_address,omitempty" gorm:"size:45"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (ProposalRequest) TableName() string {
	return "proposal_requests"
}

func (p *ProposalRequest) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	if p.Status == "" {
		p.Status = ProposalPending
	}
	return nil
}
