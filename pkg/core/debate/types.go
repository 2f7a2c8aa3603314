package debate

import "time"

// Role identifies one side of the debate.
type Role string

const (
	RoleProponent Role = "proponent"
	RoleOpponent  Role = "opponent"
)

// Other returns the opposing role.
func (r Role) Other() Role {
	if r == RoleProponent {
		return RoleOpponent
	}
	return RoleProponent
}

// Valid reports whether r is one of the two debate roles.
func (r Role) Valid() bool {
	return r == RoleProponent || r == RoleOpponent
}

// Evidence is one claim in a case, tied to a specific bundle field.
type Evidence struct {
	Claim    string `json:"claim"`
	Citation string `json:"citation"`
}

// Case is one side's structured opening argument. It is built once before
// the debate starts and immutable afterwards.
type Case struct {
	Role        Role       `json:"role"`
	Thesis      string     `json:"thesis"`
	Evidence    []Evidence `json:"evidence"`
	TargetValue float64    `json:"target_value"`

	// DirectionConflict is set when the generated target sits on the wrong
	// side of the current value for the role. The conflict is surfaced, never
	// silently inverted.
	DirectionConflict bool `json:"direction_conflict,omitempty"`
}

// Rebuttal is one side's statement within a round.
type Rebuttal struct {
	Role        Role      `json:"role"`
	Round       int       `json:"round"`
	Statement   string    `json:"statement"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Transcript is the append-only record of the debate. Its length is always
// exactly twice the number of completed rounds, strictly alternating
// Proponent then Opponent within each round.
type Transcript []Rebuttal

// latestBy returns the most recent statement made by role, or empty.
func (t Transcript) latestBy(role Role) string {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == role {
			return t[i].Statement
		}
	}
	return ""
}

// Verdict is the arbiter's decision, produced exactly once after the final
// round.
type Verdict struct {
	Winner     Role   `json:"winner"`
	Confidence int    `json:"confidence"`
	Rationale  string `json:"rationale"`
}

// State enumerates the debate lifecycle.
type State string

const (
	StateBuilt    State = "built"
	StateDebating State = "debating"
	StateClosed   State = "closed"
)
