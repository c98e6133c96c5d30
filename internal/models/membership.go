package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type PlanType string

const (
	PlanBasic   PlanType = "Basic"
	PlanPremium PlanType = "Premium"
	PlanVIP     PlanType = "VIP"

	MembershipEntity = "membership"
)

// Duration of each plan in calendar months.
var PlanDurationMonths = map[PlanType]int{
	PlanBasic:   1,
	PlanPremium: 3,
	PlanVIP:     6,
}

var PlanPrices = map[PlanType]float64{
	PlanBasic:   30,
	PlanPremium: 80,
	PlanVIP:     150,
}

func IsValidPlanType(plan string) bool {
	_, ok := PlanDurationMonths[PlanType(plan)]
	return ok
}

type MembershipStatus string

const (
	StatusPending  MembershipStatus = "Pending"
	StatusActive   MembershipStatus = "Active"
	StatusDeclined MembershipStatus = "Declined"
	StatusExpired  MembershipStatus = "Expired"

	// StatusNone is never stored; it is the resolved status when a member
	// has no membership record at all.
	StatusNone MembershipStatus = "None"
)

var ValidMembershipStatuses = map[string]bool{
	string(StatusPending):  true,
	string(StatusActive):   true,
	string(StatusDeclined): true,
	string(StatusExpired):  true,
}

func IsValidMembershipStatus(status string) bool {
	return ValidMembershipStatuses[status]
}

type Membership struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID      primitive.ObjectID `bson:"member_id" json:"member_id"`
	CheckinCode   string             `bson:"checkin_code" json:"checkin_code"`
	Plan          PlanType           `bson:"plan" json:"plan"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Status        MembershipStatus   `bson:"status" json:"status"`
	StartDate     time.Time          `bson:"start_date" json:"start_date"`
	EndDate       time.Time          `bson:"end_date" json:"end_date"`
	AppliedAt     time.Time          `bson:"applied_at" json:"applied_at"`
	ApprovedAt    *time.Time         `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	DeclineReason string             `bson:"decline_reason,omitempty" json:"decline_reason,omitempty"`

	// Member snapshot, copied at application time so history survives
	// later profile edits.
	MemberName   string `bson:"member_name" json:"member_name"`
	MemberEmail  string `bson:"member_email" json:"member_email"`
	MemberPhone  string `bson:"member_phone" json:"member_phone"`
	MemberAvatar string `bson:"member_avatar,omitempty" json:"member_avatar,omitempty"`
}

// StatusInfo is the resolved, read-time view of a membership: effective
// status plus remaining days, never trusted from the stored flags alone.
type StatusInfo struct {
	Status        MembershipStatus `json:"status"`
	IsActive      bool             `json:"is_active"`
	IsExpired     bool             `json:"is_expired"`
	IsPending     bool             `json:"is_pending"`
	RemainingDays int              `json:"remaining_days"`
}
