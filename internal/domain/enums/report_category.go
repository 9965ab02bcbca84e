package enums

type ReportCategory string

const (
	CategoryInappropriateContent ReportCategory = "inappropriate_content"
	CategorySpam                 ReportCategory = "spam"
	CategoryHarassment           ReportCategory = "harassment"
	CategoryFalseInformation     ReportCategory = "false_information"
	CategoryScam                 ReportCategory = "scam"
	CategoryAnimalWelfare        ReportCategory = "animal_welfare"
	CategoryIdentityTheft        ReportCategory = "identity_theft"
	CategoryOther                ReportCategory = "other"
)

func (c ReportCategory) Valid() bool {
	switch c {
	case CategoryInappropriateContent, CategorySpam, CategoryHarassment,
		CategoryFalseInformation, CategoryScam, CategoryAnimalWelfare,
		CategoryIdentityTheft, CategoryOther:
		return true
	}
	return false
}
