package relay

import (
	"sync/atomic"
)

// endpointStats counts request outcomes for one endpoint. Counters are the
// only cross-request state in the gateway and are atomic; everything else
// is per-invocation.
type endpointStats struct {
	requests       atomic.Int64
	relayed        atomic.Int64
	clientErrors   atomic.Int64
	configErrors   atomic.Int64
	upstreamErrors atomic.Int64
}

// EndpointCounts is the JSON snapshot of one endpoint's counters.
type EndpointCounts struct {
	Requests       int64 `json:"requests"`
	Relayed        int64 `json:"relayed"`
	ClientErrors   int64 `json:"client_errors"`
	ConfigErrors   int64 `json:"config_errors"`
	UpstreamErrors int64 `json:"upstream_errors"`
}

// stats tracks per-endpoint counters. The map is fully populated at
// construction time and only read afterwards, so no locking is needed
// around it.
type stats struct {
	endpoints map[string]*endpointStats
}

func newStats(names []string) *stats {
	s := &stats{endpoints: make(map[string]*endpointStats, len(names))}
	for _, name := range names {
		s.endpoints[name] = &endpointStats{}
	}
	return s
}

func (s *stats) get(name string) *endpointStats {
	return s.endpoints[name]
}

// snapshot returns current counter values for all endpoints.
func (s *stats) snapshot() map[string]EndpointCounts {
	out := make(map[string]EndpointCounts, len(s.endpoints))
	for name, es := range s.endpoints {
		out[name] = EndpointCounts{
			Requests:       es.requests.Load(),
			Relayed:        es.relayed.Load(),
			ClientErrors:   es.clientErrors.Load(),
			ConfigErrors:   es.configErrors.Load(),
			UpstreamErrors: es.upstreamErrors.Load(),
		}
	}
	return out
}
