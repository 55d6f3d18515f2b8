package workflow

// Tone is the visual weight of a status badge.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

type Badge struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Tone   Tone   `json:"tone"`
}

// BadgeFor renders the badge of a stored status value.
func BadgeFor(raw string) Badge {
	switch s := Normalize(raw); s {
	case StatusApproved:
		return Badge{Status: s, Label: "Approved", Tone: ToneSuccess}
	case StatusRejected:
		return Badge{Status: s, Label: "Rejected", Tone: ToneDanger}
	case StatusNeedsChanges:
		return Badge{Status: s, Label: "Needs changes", Tone: ToneWarning}
	case StatusSubmitted:
		return Badge{Status: s, Label: "Submitted", Tone: ToneInfo}
	default:
		return Badge{Status: StatusDraft, Label: "Draft", Tone: ToneNeutral}
	}
}

// ActionLabel is the button text of a review outcome.
func ActionLabel(s Status) string {
	switch s {
	case StatusApproved:
		return "Approve"
	case StatusNeedsChanges:
		return "Needs changes"
	case StatusRejected:
		return "Reject"
	default:
		return ""
	}
}
