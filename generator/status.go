package generator

// Phase is one state of the per-request generation state machine:
//
//	idle -> describing -> (parse_failed | described) -> imaging
//	     -> (partial_success | full_success | total_failure)
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseDescribing     Phase = "describing"
	PhaseParseFailed    Phase = "parse_failed"
	PhaseDescribed      Phase = "described"
	PhaseImaging        Phase = "imaging"
	PhasePartialSuccess Phase = "partial_success"
	PhaseFullSuccess    Phase = "full_success"
	PhaseTotalFailure   Phase = "total_failure"
)

// Status is the single authoritative view of an in-flight generation. The
// message is human-readable and changes at every stage and frame boundary.
type Status struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}
