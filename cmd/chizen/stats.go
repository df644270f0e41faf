package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var statsMetrics = []string{"client_calls", "client_attempts", "client_retries"}

// writeClientStats prints the api client counters gathered from reg.
func writeClientStats(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !isStatsMetric(mf.GetName()) {
			continue
		}
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), labelString(m.GetLabel()), m.GetCounter().GetValue())
		}
	}
	return nil
}

func isStatsMetric(name string) bool {
	for _, suffix := range statsMetrics {
		if strings.HasSuffix(name, "_"+suffix) {
			return true
		}
	}
	return false
}

func labelString(labels []*dto.LabelPair) string {
	pairs := make([]string, 0, len(labels))
	for _, l := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return strings.Join(pairs, ",")
}
