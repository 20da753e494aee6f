package entity

// State of one pipeline run.
type State string

const (
	Received  State = "received"
	Stored    State = "stored"
	Described State = "described"
	Parsed    State = "parsed"
	Encoded   State = "encoded"
	Submitted State = "submitted"
	Confirmed State = "confirmed"
	Failed    State = "failed"
	// Ambiguous: broadcast, inclusion not observed.
	Ambiguous State = "ambiguous"
)

// Stage is the transition that produces a State.
type Stage string

const (
	StageStore    Stage = "store"
	StageDescribe Stage = "describe"
	StageParse    Stage = "parse"
	StageEncode   Stage = "encode"
	StageSubmit   Stage = "submit"
	StageConfirm  Stage = "confirm"
)

func (s Stage) Target() State {
	switch s {
	case StageStore:
		return Stored
	case StageDescribe:
		return Described
	case StageParse:
		return Parsed
	case StageEncode:
		return Encoded
	case StageSubmit:
		return Submitted
	case StageConfirm:
		return Confirmed
	default:
		return Failed
	}
}
