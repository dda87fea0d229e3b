package debug

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// MemSample is one reading of the memory logger.
type MemSample struct {
	Goroutines int
	HeapAlloc  uint64
	HeapInuse  uint64
	HeapSys    uint64
	NumGC      uint32
	RSS        uint64
}

// ReadMem samples Go heap stats and the process resident set size. RSS is
// zero when the platform query fails; the error is returned alongside.
func ReadMem() (MemSample, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	rss, err := processRSS()
	return MemSample{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
		NumGC:      ms.NumGC,
		RSS:        rss,
	}, err
}

// StartMemLogger logs heap stats and RSS every interval until ctx is done.
// Frame buffers retained by the capture loop show up as RSS without heap
// growth on the camera path, which is why both are logged together.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			s, err := ReadMem()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("memstats",
				slog.Int("goroutines", s.Goroutines),
				slog.Uint64("heap_alloc", s.HeapAlloc),
				slog.Uint64("heap_inuse", s.HeapInuse),
				slog.Uint64("heap_sys", s.HeapSys),
				slog.Uint64("rss", s.RSS),
				slog.Uint64("num_gc", uint64(s.NumGC)),
			)
		}
	}()
}
