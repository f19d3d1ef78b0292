package paginate

import "fmt"

// Phase is the step a page is in while the driver processes it
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSettling
	PhaseScrolling
	PhaseExtracting
	PhaseAccumulated
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSettling:
		return "settling"
	case PhaseScrolling:
		return "scrolling"
	case PhaseExtracting:
		return "extracting"
	case PhaseAccumulated:
		return "accumulated"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
