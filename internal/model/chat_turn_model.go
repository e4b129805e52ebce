package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatTurn struct {
	Id             uint           `gorm:"primaryKey;autoIncrement"`
	ConversationId string         `gorm:"type:text"`
	UserId         string         `gorm:"type:text;not null;index"`
	Question       string         `gorm:"type:text;not null"`
	Response       string         `gorm:"type:text;not null"`
	Sources        datatypes.JSON `gorm:"type:jsonb"`
	Timestamp      time.Time      `gorm:"autoCreateTime;index"`
	Feedback       *int           // reserved for a rating UI, no write path yet
}

func (ChatTurn) TableName() string {
	return "chat_history"
}
