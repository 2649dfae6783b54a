package quota

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/models"
)

func TestNewSchedule(t *testing.T) {
	tests := []struct {
		name    string
		amounts map[models.Role]decimal.Decimal
		wantErr string
	}{
		{
			name: "complete table",
			amounts: map[models.Role]decimal.Decimal{
				models.RoleAdmin:  decimal.NewFromInt(50),
				models.RoleCFO:    decimal.NewFromInt(35),
				models.RoleMember: decimal.NewFromInt(10),
			},
		},
		{
			name: "missing role",
			amounts: map[models.Role]decimal.Decimal{
				models.RoleAdmin:  decimal.NewFromInt(50),
				models.RoleMember: decimal.NewFromInt(10),
			},
			wantErr: "quota missing for roles: CFO",
		},
		{
			name: "negative amount",
			amounts: map[models.Role]decimal.Decimal{
				models.RoleAdmin:  decimal.NewFromInt(50),
				models.RoleCFO:    decimal.NewFromInt(-1),
				models.RoleMember: decimal.NewFromInt(10),
			},
			wantErr: "negative",
		},
		{
			name: "unknown role",
			amounts: map[models.Role]decimal.Decimal{
				models.RoleAdmin:     decimal.NewFromInt(50),
				models.RoleCFO:       decimal.NewFromInt(35),
				models.RoleMember:    decimal.NewFromInt(10),
				models.Role("GUEST"): decimal.NewFromInt(1),
			},
			wantErr: "unknown role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchedule(tt.amounts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for role, want := range tt.amounts {
				got, err := s.For(role)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "role %s", role)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default()

	member, err := s.For(models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "10", member.String())

	_, err = s.For(models.Role("GUEST"))
	assert.Error(t, err)
}
