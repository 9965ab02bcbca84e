package reports

import "github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"

// allowedTransitions is the full report state machine. Anything not listed is
// rejected; resolved and dismissed are terminal.
var allowedTransitions = map[enums.ReportStatus][]enums.ReportStatus{
	enums.ReportStatusPending: {
		enums.ReportStatusUnderReview,
		enums.ReportStatusResolved,
		enums.ReportStatusDismissed,
		enums.ReportStatusEscalated,
	},
	enums.ReportStatusUnderReview: {
		enums.ReportStatusResolved,
		enums.ReportStatusDismissed,
		enums.ReportStatusEscalated,
	},
	enums.ReportStatusEscalated: {
		enums.ReportStatusResolved,
		enums.ReportStatusDismissed,
	},
}

// CanTransition reports whether the state machine allows moving a report from
// one status to another.
func CanTransition(from, to enums.ReportStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
