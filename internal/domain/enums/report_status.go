package enums

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
	ReportStatusEscalated   ReportStatus = "escalated"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved,
		ReportStatusDismissed, ReportStatusEscalated:
		return true
	}
	return false
}

func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}
