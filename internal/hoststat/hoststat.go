// Package hoststat samples the memory and CPU usage of the current process.
package hoststat

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/procfs"
)

// DefaultTTL bounds how often /proc is re-read under tight polling.
const DefaultTTL = 500 * time.Millisecond

const sampleKey = "self"

// Sample is one reading of the host process.
type Sample struct {
	MemoryMB   float64
	CPUPercent float64
}

// Reading is the raw data a Source returns: resident bytes and cumulative
// CPU seconds (user + system).
type Reading struct {
	ResidentBytes uint64
	CPUSeconds    float64
}

// Source reads the raw process counters.
type Source func() (Reading, error)

// ProcSource reads /proc/self/stat. On systems without procfs it fails and
// the sampler reports zeros.
func ProcSource() (Reading, error) {
	p, err := procfs.Self()
	if err != nil {
		return Reading{}, err
	}
	st, err := p.Stat()
	if err != nil {
		return Reading{}, err
	}
	return Reading{ResidentBytes: uint64(st.ResidentMemory()), CPUSeconds: st.CPUTime()}, nil
}

// Sampler turns cumulative CPU time into a utilisation percentage between
// consecutive readings and caches the result for a short TTL.
type Sampler struct {
	src   Source
	now   func() time.Time
	cache *ttlcache.Cache[string, Sample]

	mu      sync.Mutex
	lastCPU float64
	lastAt  time.Time
}

// New creates a Sampler. A nil src uses ProcSource; ttl <= 0 uses DefaultTTL.
func New(src Source, ttl time.Duration) *Sampler {
	if src == nil {
		src = ProcSource
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := ttlcache.New[string, Sample](
		ttlcache.WithTTL[string, Sample](ttl),
		ttlcache.WithDisableTouchOnHit[string, Sample](),
	)
	return &Sampler{src: src, now: time.Now, cache: c}
}

// Sample returns the cached reading or takes a fresh one.
func (s *Sampler) Sample() Sample {
	if item := s.cache.Get(sampleKey); item != nil {
		return item.Value()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if item := s.cache.Get(sampleKey); item != nil {
		return item.Value()
	}
	r, err := s.src()
	if err != nil {
		return Sample{}
	}
	now := s.now()
	out := Sample{MemoryMB: bytesToMB(r.ResidentBytes)}
	if !s.lastAt.IsZero() {
		if wall := now.Sub(s.lastAt).Seconds(); wall > 0 {
			out.CPUPercent = (r.CPUSeconds - s.lastCPU) / wall * 100
			if out.CPUPercent < 0 {
				out.CPUPercent = 0
			}
		}
	}
	s.lastCPU = r.CPUSeconds
	s.lastAt = now
	s.cache.Set(sampleKey, out, ttlcache.DefaultTTL)
	return out
}

func bytesToMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
