package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crossingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "office_presence_crossings_total",
		Help: "Total number of confirmed office boundary crossings.",
	}, []string{"direction"})

	pushSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "office_presence_push_sends_total",
		Help: "Total number of push send attempts.",
	}, []string{"result"})

	subscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "office_presence_topic_subscriptions_total",
		Help: "Total number of successful topic subscriptions.",
	}, []string{"topic"})

	decodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "office_presence_inbound_decode_errors_total",
		Help: "Total number of inbound push payloads dropped as malformed.",
	})

	localDeliveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "office_presence_local_deliveries_total",
		Help: "Total number of local notifications scheduled for delivery.",
	})
)

// ObserveCrossing counts a confirmed boundary crossing by direction.
func ObserveCrossing(didEnter bool) {
	direction := "exit"
	if didEnter {
		direction = "enter"
	}
	crossingsTotal.WithLabelValues(direction).Inc()
}

// ObservePushSend counts a push send attempt by outcome.
func ObservePushSend(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	pushSendsTotal.WithLabelValues(result).Inc()
}

// ObserveSubscription counts a successful topic subscription.
func ObserveSubscription(topic string) {
	subscriptionsTotal.WithLabelValues(topic).Inc()
}

// ObserveDecodeError counts a dropped malformed inbound payload.
func ObserveDecodeError() {
	decodeErrorsTotal.Inc()
}

// ObserveLocalDelivery counts a scheduled local notification.
func ObserveLocalDelivery() {
	localDeliveriesTotal.Inc()
}

// Handler exposes the process metrics for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
