// Package quota holds the role to monthly-quota table.
package quota

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/models"
)

// Schedule maps every role to its monthly quota. A Schedule built with
// NewSchedule always has an entry for each role in models.Roles.
type Schedule struct {
	amounts map[models.Role]decimal.Decimal
}

// NewSchedule validates amounts exhaustively: every role must be present and
// non-negative, and unknown roles are rejected.
func NewSchedule(amounts map[models.Role]decimal.Decimal) (*Schedule, error) {
	s := &Schedule{amounts: make(map[models.Role]decimal.Decimal, len(amounts))}
	var missing []string
	for _, role := range models.Roles() {
		amount, ok := amounts[role]
		if !ok {
			missing = append(missing, string(role))
			continue
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("quota for role %s is negative: %s", role, amount)
		}
		s.amounts[role] = amount
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("quota missing for roles: %s", strings.Join(missing, ", "))
	}
	for role := range amounts {
		if !role.Valid() {
			return nil, fmt.Errorf("quota defined for unknown role %q", role)
		}
	}
	return s, nil
}

// Default returns the association's standard schedule.
func Default() *Schedule {
	s, err := NewSchedule(map[models.Role]decimal.Decimal{
		models.RoleMember: decimal.NewFromInt(10),
		models.RoleCFO:    decimal.NewFromInt(35),
		models.RoleAdmin:  decimal.NewFromInt(50),
	})
	if err != nil {
		panic(err)
	}
	return s
}

// For returns the quota for role. It fails for roles the schedule does not
// know instead of defaulting to zero.
func (s *Schedule) For(role models.Role) (decimal.Decimal, error) {
	amount, ok := s.amounts[role]
	if !ok {
		return decimal.Zero, fmt.Errorf("no quota configured for role %q", role)
	}
	return amount, nil
}

// Amounts returns a copy of the table.
func (s *Schedule) Amounts() map[models.Role]decimal.Decimal {
	out := make(map[models.Role]decimal.Decimal, len(s.amounts))
	for role, amount := range s.amounts {
		out[role] = amount
	}
	return out
}
