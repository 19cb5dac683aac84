package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

const namespace = "governance"

// Recorder counts governance operations on its own registry.
type Recorder struct {
	registry         *prometheus.Registry
	proposalsCreated *prometheus.CounterVec
	votesCast        *prometheus.CounterVec
	tallies          *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: registry,
		proposalsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_created_total",
			Help:      "Proposals created, by voting method.",
		}, []string{"method"}),
		votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Accepted votes, by choice and whether an earlier vote was overwritten.",
		}, []string{"choice", "recast"}),
		tallies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tallies_total",
			Help:      "Completed tallies, by voting method and outcome.",
		}, []string{"method", "passed"}),
	}
	registry.MustRegister(r.proposalsCreated, r.votesCast, r.tallies)
	return r
}

func (r *Recorder) ProposalCreated(method entities.VotingMethod) {
	r.proposalsCreated.WithLabelValues(string(method)).Inc()
}

func (r *Recorder) VoteCast(choice entities.VoteChoice, wasUpdate bool) {
	r.votesCast.WithLabelValues(string(choice), strconv.FormatBool(wasUpdate)).Inc()
}

func (r *Recorder) ProposalTallied(method entities.VotingMethod, passed bool) {
	r.tallies.WithLabelValues(string(method), strconv.FormatBool(passed)).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

var _ ports.MetricsRecorder = (*Recorder)(nil)
