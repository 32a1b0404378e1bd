package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyEvaluate(t *testing.T) {
	policy := NewPolicy()
	pickup := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "a week before pickup earns full refund",
			now:  pickup.Add(-7 * 24 * time.Hour),
			want: FullRefund,
		},
		{
			name: "exactly 24 hours before pickup earns full refund",
			now:  pickup.Add(-24 * time.Hour),
			want: FullRefund,
		},
		{
			name: "one second under 24 hours earns partial refund",
			now:  pickup.Add(-24*time.Hour + time.Second),
			want: PartialRefund,
		},
		{
			name: "one hour before pickup earns partial refund",
			now:  pickup.Add(-time.Hour),
			want: PartialRefund,
		},
		{
			name: "at pickup time earns nothing",
			now:  pickup,
			want: NoRefund,
		},
		{
			name: "after pickup earns nothing",
			now:  pickup.Add(3 * time.Hour),
			want: NoRefund,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(pickup, tt.now))
		})
	}
}
