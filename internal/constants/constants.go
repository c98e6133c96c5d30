package constants

const (
	Create     = "CREATE"
	Update     = "UPDATE"
	Deactivate = "DEACTIVATE"

	Apply      = "APPLY"
	Approve    = "APPROVE"
	Decline    = "DECLINE"
	Extend     = "EXTEND"
	ChangePlan = "CHANGE_PLAN"
	Withdraw   = "WITHDRAW"
	Sweep      = "SWEEP"

	Checkin = "CHECKIN"

	System = "system"
)
