package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bot-level counters, served on the keep-alive endpoint

var (
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faceforge_events_total",
		Help: "Inbound user events processed, by kind",
	}, []string{"kind"})

	FacesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceforge_faces_generated_total",
		Help: "Face images successfully delivered",
	})

	ProviderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceforge_provider_failures_total",
		Help: "Image provider fetch failures (errors, timeouts, non-200)",
	})

	AdsWatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceforge_ads_watched_total",
		Help: "Ad-watch credit grants accepted",
	})

	CreditsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faceforge_credits_granted_total",
		Help: "Credits added through simulated purchases",
	})
)
