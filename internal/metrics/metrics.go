package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ledger records postings and workflow transitions. A nil *Ledger is a no-op.
type Ledger struct {
	postings    *prometheus.CounterVec
	replays     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	commissions *prometheus.CounterVec
	drift       prometheus.Counter
}

// NewLedger registers the ledger metrics on the provided registerer.
func NewLedger(reg prometheus.Registerer) *Ledger {
	if reg == nil {
		return &Ledger{}
	}
	postings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_postings_total",
		Help: "Ledger transactions committed.",
	}, []string{"type", "bucket"})
	replays := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_idempotent_replays_total",
		Help: "Postings skipped because their reference was already in the ledger.",
	}, []string{"type"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Request state transitions attempted.",
	}, []string{"flow", "target", "result"})
	commissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_credits_total",
		Help: "Commission credits issued per event type and tier.",
	}, []string{"event_type", "tier"})
	drift := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_reconcile_drift_total",
		Help: "Accounts whose stored balances disagreed with the ledger during reconciliation.",
	})
	reg.MustRegister(postings, replays, transitions, commissions, drift)
	return &Ledger{
		postings:    postings,
		replays:     replays,
		transitions: transitions,
		commissions: commissions,
		drift:       drift,
	}
}

func (l *Ledger) IncPosting(txType, bucket string) {
	if l == nil || l.postings == nil {
		return
	}
	l.postings.WithLabelValues(txType, bucket).Inc()
}

func (l *Ledger) IncReplay(txType string) {
	if l == nil || l.replays == nil {
		return
	}
	l.replays.WithLabelValues(txType).Inc()
}

// ObserveTransition counts a transition attempt; result is "ok" or the error class.
func (l *Ledger) ObserveTransition(flow, target, result string) {
	if l == nil || l.transitions == nil {
		return
	}
	l.transitions.WithLabelValues(flow, target, result).Inc()
}

func (l *Ledger) IncCommission(eventType, tier string) {
	if l == nil || l.commissions == nil {
		return
	}
	l.commissions.WithLabelValues(eventType, tier).Inc()
}

func (l *Ledger) IncDrift() {
	if l == nil || l.drift == nil {
		return
	}
	l.drift.Inc()
}
