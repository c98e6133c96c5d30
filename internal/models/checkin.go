package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckinEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CheckinCode  string             `bson:"checkin_code" json:"checkin_code"`
	MembershipID primitive.ObjectID `bson:"membership_id" json:"membership_id"`
	MemberID     primitive.ObjectID `bson:"member_id" json:"member_id"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	ManualEntry  bool               `bson:"manual_entry" json:"manual_entry"`
	RecordedBy   string             `bson:"recorded_by" json:"recorded_by"`

	// Membership snapshot at check-in time for audit/report independence
	// from later membership mutation.
	Plan        PlanType  `bson:"plan" json:"plan"`
	MemberName  string    `bson:"member_name" json:"member_name"`
	MemberEmail string    `bson:"member_email" json:"member_email"`
	MemberPhone string    `bson:"member_phone" json:"member_phone"`
	PeriodStart time.Time `bson:"period_start" json:"period_start"`
	PeriodEnd   time.Time `bson:"period_end" json:"period_end"`
}

const (
	CheckinEntity = "checkin"
)

// ScannedCode is the parsed form of a scanner/keyboard input: either the
// qrCodeId extracted from a structured QR payload, or the raw input itself.
type ScannedCode struct {
	Code       string `json:"code"`
	Structured bool   `json:"structured"`
}

// ParseScannedCode attempts the structured JSON payload first and falls
// back to treating the whole input as a bare check-in code.
func ParseScannedCode(input string) ScannedCode {
	var payload struct {
		QRCodeID string `json:"qrCodeId"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err == nil && payload.QRCodeID != "" {
		return ScannedCode{Code: payload.QRCodeID, Structured: true}
	}
	return ScannedCode{Code: strings.TrimSpace(input)}
}
