package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEvaluationsCounter(t *testing.T) {
	before := testutil.ToFloat64(Evaluations.WithLabelValues("rule"))
	Evaluations.WithLabelValues("rule").Inc()
	if got := testutil.ToFloat64(Evaluations.WithLabelValues("rule")); got != before+1 {
		t.Errorf("evaluations{tier=rule} = %v, want %v", got, before+1)
	}
}

func TestSessionTransitionsCounter(t *testing.T) {
	before := testutil.ToFloat64(SessionTransitions.WithLabelValues("pause"))
	SessionTransitions.WithLabelValues("pause").Add(2)
	if got := testutil.ToFloat64(SessionTransitions.WithLabelValues("pause")); got != before+2 {
		t.Errorf("transitions{pause} = %v, want %v", got, before+2)
	}
}
