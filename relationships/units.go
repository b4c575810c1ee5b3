package relationships

import (
	"fmt"
	"strings"
)

const (
	// MinCM is the smallest shared cM value accepted for a query.
	MinCM = 1.0
	// MaxCM is the largest shared cM value accepted for a query.
	MaxCM = 3720.0
	// PercentBasis is the total cM that corresponds to 100% shared DNA.
	PercentBasis = 7460.0
	// MaxPercent is the largest shared percentage accepted for a query.
	MaxPercent = 100.0
)

// Unit selects how a raw query value is interpreted.
type Unit string

const (
	UnitCM      Unit = "cm"
	UnitPercent Unit = "percent"
)

// ParseUnit accepts the usual spellings of both units.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cm", "centimorgan", "centimorgans":
		return UnitCM, nil
	case "percent", "pct", "%":
		return UnitPercent, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, s)
	}
}

func (u Unit) String() string {
	return string(u)
}

// Bound names the limit a clamped value was moved to.
type Bound string

const (
	BoundMinimum Bound = "minimum"
	BoundMaximum Bound = "maximum"
)

// ClampNotice records a substituted input value. It is informational, not an error.
type ClampNotice struct {
	Unit        Unit    `json:"unit"`
	Original    float64 `json:"original"`
	Substituted float64 `json:"substituted"`
	Bound       Bound   `json:"bound"`
}

// Message is the user-facing text for the notice.
func (n ClampNotice) Message() string {
	bound := "Maximum"
	if n.Bound == BoundMinimum {
		bound = "Minimum"
	}
	if n.Unit == UnitPercent {
		return fmt.Sprintf("%s percentage value of %g has been substituted", bound, n.Substituted)
	}
	return fmt.Sprintf("%s centimorgan value of %g has been substituted", bound, n.Substituted)
}

func joinNotices(notices []ClampNotice) string {
	if len(notices) == 0 {
		return ""
	}
	msgs := make([]string, len(notices))
	for i, n := range notices {
		msgs[i] = n.Message()
	}
	return strings.Join(msgs, "; ")
}

// Normalized is a query value expressed in cM and guaranteed to lie in [MinCM, MaxCM].
type Normalized struct {
	CM      float64
	Percent float64
	Notices []ClampNotice
}

// PercentToCM converts a shared percentage to centimorgans without clamping.
func PercentToCM(percent float64) float64 {
	return PercentBasis / 100 * percent
}

// CMToPercent converts centimorgans to a shared percentage without clamping.
func CMToPercent(cm float64) float64 {
	return cm / PercentBasis * 100
}

// Normalize converts value to cM and clamps it into the valid domain. Percentages are
// clamped to [0, 100] first; the resulting cM is then clamped to [MinCM, MaxCM].
// Every substitution is reported as a notice.
func Normalize(value float64, unit Unit) (Normalized, error) {
	var out Normalized
	cm := value
	switch unit {
	case UnitPercent:
		percent := value
		if percent > MaxPercent {
			out.Notices = append(out.Notices, ClampNotice{Unit: UnitPercent, Original: value, Substituted: MaxPercent, Bound: BoundMaximum})
			percent = MaxPercent
		} else if percent < 0 {
			out.Notices = append(out.Notices, ClampNotice{Unit: UnitPercent, Original: value, Substituted: 0, Bound: BoundMinimum})
			percent = 0
		}
		cm = PercentToCM(percent)
	case UnitCM:
	default:
		return out, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}
	if cm > MaxCM {
		out.Notices = append(out.Notices, ClampNotice{Unit: UnitCM, Original: cm, Substituted: MaxCM, Bound: BoundMaximum})
		cm = MaxCM
	} else if cm < MinCM {
		out.Notices = append(out.Notices, ClampNotice{Unit: UnitCM, Original: cm, Substituted: MinCM, Bound: BoundMinimum})
		cm = MinCM
	}
	out.CM = cm
	out.Percent = CMToPercent(cm)
	return out, nil
}
