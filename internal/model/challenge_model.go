package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeStatus string

const (
	ChallengeStatusPending    ChallengeStatus = "Pending"
	ChallengeStatusInProgress ChallengeStatus = "In Progress"
	ChallengeStatusCompleted  ChallengeStatus = "Completed"
)

// Challenge is only ever written after the generation service returned links for it.
type Challenge struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateName  string          `gorm:"type:varchar(255)" json:"candidateName"`
	CandidateEmail string          `gorm:"type:varchar(255);index" json:"candidateEmail"`
	JobTitle       string          `gorm:"type:varchar(255)" json:"jobTitle"`
	ChallengeLink  string          `gorm:"type:text" json:"challengeLink"`
	GithubRepo     string          `gorm:"type:text" json:"githubRepo"`
	Status         ChallengeStatus `gorm:"type:varchar(50)" json:"status"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`
}

func (c *Challenge) TableName() string {
	return "challenges"
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
