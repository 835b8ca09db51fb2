package core

// ChangeState classifies an entity relative to its baseline.
//
// An entity that was never touched has no recorded state and reports Unchanged.
// Added entities have no baseline; Deleted entities keep their baseline so a
// revert can reinstate them.
type ChangeState int

const (
	Unchanged ChangeState = iota
	Added
	Modified
	Deleted
)

func (s ChangeState) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
