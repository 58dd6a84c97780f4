package strawpoll

import "github.com/prometheus/client_golang/prometheus"

var (
	pollsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strawpoll_polls_created_total",
		Help: "Number of polls created",
	})
	votesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strawpoll_votes_total",
		Help: "Number of votes cast",
	})
)
