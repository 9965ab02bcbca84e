package enums

type EvidenceType string

const (
	EvidenceScreenshot EvidenceType = "screenshot"
	EvidenceURL        EvidenceType = "url"
	EvidenceText       EvidenceType = "text"
	EvidenceFile       EvidenceType = "file"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceScreenshot, EvidenceURL, EvidenceText, EvidenceFile:
		return true
	}
	return false
}

// Signable reports whether evidence of this type carries a private object key
// that should be presigned into a fetchable URL when presented to clients.
func (t EvidenceType) Signable() bool {
	return t == EvidenceScreenshot || t == EvidenceFile
}
