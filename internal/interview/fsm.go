package interview

type Phase string

const (
	PhaseIntroduction Phase = "introduction"
	PhaseQuestions    Phase = "questions"
	PhaseClosing      Phase = "closing"
)

// transitions lists the phases reachable from each phase. Closing is terminal.
var transitions = map[Phase][]Phase{
	PhaseIntroduction: {PhaseQuestions, PhaseClosing},
	PhaseQuestions:    {PhaseQuestions, PhaseClosing},
	PhaseClosing:      {},
}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// State is the controller position. Index counts questions already sent.
type State struct {
	Phase Phase `json:"phase"`
	Index int   `json:"index"`
	Total int   `json:"total"`
}

type StepKind int

const (
	StepNone StepKind = iota
	StepAsk
	StepClose
)

func (k StepKind) String() string {
	switch k {
	case StepAsk:
		return "ask"
	case StepClose:
		return "close"
	default:
		return "none"
	}
}

// Step is the utterance Advance asks the caller to send. Index is the
// question index for StepAsk.
type Step struct {
	Kind  StepKind
	Index int
}

// Advance returns the state to commit once the step has been sent. It does
// not mutate s. From introduction with no questions it goes straight to
// closing; from closing it returns StepNone and s unchanged.
func Advance(s State) (State, Step) {
	if s.Phase == PhaseClosing {
		return s, Step{Kind: StepNone}
	}

	next := s
	if s.Index >= s.Total {
		next.Phase = PhaseClosing
		return next, Step{Kind: StepClose}
	}

	next.Phase = PhaseQuestions
	next.Index = s.Index + 1
	return next, Step{Kind: StepAsk, Index: s.Index}
}
