package enums

type ActionType string

const (
	ActionWarningIssued     ActionType = "warning_issued"
	ActionContentRemoved    ActionType = "content_removed"
	ActionUserSuspended     ActionType = "user_suspended"
	ActionUserBanned        ActionType = "user_banned"
	ActionAccountRestricted ActionType = "account_restricted"
	ActionContentFlagged    ActionType = "content_flagged"
	ActionReportDismissed   ActionType = "report_dismissed"
	ActionEscalation        ActionType = "escalation"
	ActionAppealReviewed    ActionType = "appeal_reviewed"
	ActionNoAction          ActionType = "no_action"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionWarningIssued, ActionContentRemoved, ActionUserSuspended,
		ActionUserBanned, ActionAccountRestricted, ActionContentFlagged,
		ActionReportDismissed, ActionEscalation, ActionAppealReviewed,
		ActionNoAction:
		return true
	}
	return false
}
