package enums

// ResolutionType records how a resolved report was settled.
type ResolutionType string

const (
	ResolutionNoAction       ResolutionType = "no_action"
	ResolutionWarningIssued  ResolutionType = "warning_issued"
	ResolutionContentRemoved ResolutionType = "content_removed"
	ResolutionUserSuspended  ResolutionType = "user_suspended"
	ResolutionUserBanned     ResolutionType = "user_banned"
	ResolutionEscalated      ResolutionType = "escalated"
)

func (t ResolutionType) Valid() bool {
	switch t {
	case ResolutionNoAction, ResolutionWarningIssued, ResolutionContentRemoved,
		ResolutionUserSuspended, ResolutionUserBanned, ResolutionEscalated:
		return true
	}
	return false
}

// ResolutionForAction maps a moderator action type onto the resolution value
// recorded on the report it settles. Action types with no resolution
// counterpart map to no_action.
func ResolutionForAction(t ActionType) ResolutionType {
	switch t {
	case ActionWarningIssued:
		return ResolutionWarningIssued
	case ActionContentRemoved:
		return ResolutionContentRemoved
	case ActionUserSuspended:
		return ResolutionUserSuspended
	case ActionUserBanned:
		return ResolutionUserBanned
	case ActionEscalation:
		return ResolutionEscalated
	}
	return ResolutionNoAction
}
