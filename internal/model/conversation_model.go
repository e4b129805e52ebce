package model

import (
	"time"

	"gorm.io/datatypes"
)

type Conversation struct {
	ConversationId string         `gorm:"type:text;primaryKey"` // conv_<unix>_<user prefix>, generated by the session store
	UserId         string         `gorm:"type:text;not null;index"`
	Context        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
