package model

// Kind names one of the entity collections a user can own.
type Kind string

const (
	KindVision       Kind = "vision"
	KindGoal         Kind = "goal"
	KindTask         Kind = "task"
	KindIdea         Kind = "idea"
	KindNote         Kind = "note"
	KindJournalEntry Kind = "journal_entry"
	KindAchievement  Kind = "achievement"
)

func (k Kind) String() string {
	return string(k)
}
