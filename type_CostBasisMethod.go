package capgains

import "fmt"

// CostBasisMethod defines the method for selecting tax lots and calculating
// cost basis when shares are sold.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) sells the earliest purchased shares first.
	FIFO CostBasisMethod = iota
	// LIFO (Last-In, First-Out) sells the most recently purchased shares first.
	LIFO
	// AverageCost prices every sold share at the weighted average cost of all
	// active lots. Typical for mutual funds.
	AverageCost
	// SpecificID requires the seller to designate the exact lots sold.
	SpecificID
)

// UnspecifiedMethod asks ProcessSell to use the investment's default method.
const UnspecifiedMethod CostBasisMethod = -1

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case AverageCost:
		return "average"
	case SpecificID:
		return "specific"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "average":
		return AverageCost, nil
	case "specific":
		return SpecificID, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface for CostBasisMethod.
func (m CostBasisMethod) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for CostBasisMethod.
func (m *CostBasisMethod) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid cost basis method: %s", data)
	}
	parsed, err := ParseCostBasisMethod(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
