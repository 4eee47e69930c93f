package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Next(t *testing.T) {
	tests := []struct {
		status Status
		want   Status
	}{
		{status: StatusPresent, want: StatusAbsent},
		{status: StatusAbsent, want: StatusLate},
		{status: StatusLate, want: StatusExcused},
		{status: StatusExcused, want: StatusPresent},
		{status: "", want: StatusPresent},
		{status: "SICK", want: StatusPresent},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Next(); got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_NextIsACycleOfFour(t *testing.T) {
	for _, st := range Statuses {
		got := st
		for i := 0; i < len(Statuses); i++ {
			got = got.Next()
		}
		assert.Equal(t, st, got)
		assert.True(t, st.IsValid())
	}
	assert.Len(t, Statuses, 4)
	assert.False(t, Status("SICK").IsValid())
}

func TestRules_IsAbsence(t *testing.T) {
	lenient := Rules{}
	strict := Rules{LateCountsAsAbsence: true, ExcusedCountsAsAbsence: true}

	assert.True(t, lenient.IsAbsence(StatusAbsent))
	assert.False(t, lenient.IsAbsence(StatusLate))
	assert.False(t, lenient.IsAbsence(StatusExcused))
	assert.False(t, lenient.IsAbsence(StatusPresent))

	assert.True(t, strict.IsAbsence(StatusLate))
	assert.True(t, strict.IsAbsence(StatusExcused))
	assert.False(t, strict.IsAbsence(StatusPresent))
}

func TestRate(t *testing.T) {
	assert.Equal(t, float64(100), Rate(0, 0))
	assert.Equal(t, float64(75), Rate(4, 1))
	assert.Equal(t, float64(0), Rate(2, 2))
}
