package notify

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts notifications and their per-listener outcomes.
// A nil *Metrics records nothing.
type Metrics struct {
	notifications prometheus.Counter
	deliveries    *prometheus.CounterVec
}

// NewMetrics creates the notification counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bank",
			Name:      "notifications_sent_total",
			Help:      "Number of account event messages broadcast to listeners.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bank",
			Name:      "notification_deliveries_total",
			Help:      "Number of per-listener deliveries by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		if err := reg.Register(m.notifications); err != nil {
			return nil, err
		}
		if err := reg.Register(m.deliveries); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) sent() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}

func (m *Metrics) delivered(err error) {
	if m == nil {
		return
	}
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	m.deliveries.WithLabelValues(outcome).Inc()
}
