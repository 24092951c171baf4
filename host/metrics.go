// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "host"

type metrics struct {
	callsSucceeded prometheus.Counter
	callsFailed    prometheus.Counter
	callsRejected  prometheus.Counter
	accountsMade   prometheus.Counter
	callDuration   prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		callsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_succeeded",
			Help:      "number of calls committed",
		}),
		callsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_failed",
			Help:      "number of calls whose program returned an error",
		}),
		callsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_rejected",
			Help:      "number of calls refused before or after running the program",
		}),
		accountsMade: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_created",
			Help:      "number of accounts created",
		}),
		callDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration",
			Help:      "time spent handling a call (ns)",
			Buckets:   prometheus.ExponentialBuckets(1_000, 10, 7),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.callsSucceeded),
		r.Register(m.callsFailed),
		r.Register(m.callsRejected),
		r.Register(m.accountsMade),
		r.Register(m.callDuration),
	)
	return m, errs.Err
}
