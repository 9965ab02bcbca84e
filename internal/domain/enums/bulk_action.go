package enums

// BulkAction selects the per-report operation applied by a bulk update.
type BulkAction string

const (
	BulkResolve  BulkAction = "resolve"
	BulkDismiss  BulkAction = "dismiss"
	BulkAssign   BulkAction = "assign"
	BulkEscalate BulkAction = "escalate"
)

func (a BulkAction) Valid() bool {
	switch a {
	case BulkResolve, BulkDismiss, BulkAssign, BulkEscalate:
		return true
	}
	return false
}
