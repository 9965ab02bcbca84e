package model

import (
	"fmt"

	"github.com/google/uuid"
)

// NewReportID and NewActionID generate prefixed opaque identifiers. The
// prefix makes IDs self-describing in logs and audit rows.
func NewReportID() string {
	return fmt.Sprintf("report_%s", uuid.NewString())
}

func NewActionID() string {
	return fmt.Sprintf("action_%s", uuid.NewString())
}
