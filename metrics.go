// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts uploads. A nil *Metrics counts nothing.
type Metrics struct {
	files    prometheus.Counter
	bytes    prometheus.Counter
	failures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with 'reg'.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drop",
			Name:      "files_total",
			Help:      "Files that have been written completely.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drop",
			Name:      "bytes_total",
			Help:      "Bytes written to completed files.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drop",
			Name:      "failures_total",
			Help:      "Aborted uploads by reason.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.files, m.bytes, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Have all series show up before the first failure.
	for _, reason := range []string{
		reasonMissingFilename, reasonUnacceptableFilename,
		reasonMultipart, reasonCreate, reasonStream,
	} {
		m.failures.WithLabelValues(reason)
	}
	return m, nil
}

func (m *Metrics) fileWritten(numBytes int64) {
	if m == nil {
		return
	}
	m.files.Inc()
	m.bytes.Add(float64(numBytes))
}

func (m *Metrics) failed(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}
