package targets

import (
	"testing"

	"github.com/2beens/fitpoints/internal/fitness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestUpsertRequest_Normalize(t *testing.T) {
	req := UpsertRequest{Year: 2025, Week: 14}
	require.NoError(t, req.Normalize())
	require.NotNil(t, req.TargetPoints)
	assert.Equal(t, DefaultTargetPoints, *req.TargetPoints)

	req = UpsertRequest{Year: 2025, Week: 53, TargetPoints: intPtr(0)}
	require.NoError(t, req.Normalize())
	assert.Equal(t, 0, *req.TargetPoints)

	for _, tc := range []struct {
		name  string
		req   UpsertRequest
		field string
	}{
		{"missing year", UpsertRequest{Week: 1}, "year"},
		{"week zero", UpsertRequest{Year: 2025, Week: 0}, "week"},
		{"week 54", UpsertRequest{Year: 2025, Week: 54}, "week"},
		{"negative points", UpsertRequest{Year: 2025, Week: 2, TargetPoints: intPtr(-1)}, "target_points"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Normalize()
			require.Error(t, err)
			var vErr *fitness.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdateRequest{}).Validate())
	assert.Error(t, (&UpdateRequest{TargetPoints: intPtr(-5)}).Validate())
	assert.NoError(t, (&UpdateRequest{TargetPoints: intPtr(70)}).Validate())
}
