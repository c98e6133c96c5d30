package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CheckinCode string             `bson:"checkin_code" json:"checkin_code"`
	Blocked     bool               `bson:"blocked" json:"blocked"`
	Active      bool               `bson:"active" json:"active"` // For deactivation
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	MemberEntity = "member"
)
