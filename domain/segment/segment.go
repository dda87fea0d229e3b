// Package segment finds the largest connected region of color-matching pixels
// in a frame.
package segment

import (
	"log/slog"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/frame"
)

// Matcher classifies a single opaque pixel. *color.Model and color.Range
// both satisfy it.
type Matcher interface {
	MatchesRGB(r, g, b uint8) bool
}

// Blob is the region reported by Detect.
type Blob struct {
	Seed     frame.Position
	Centroid frame.Position
	Size     int
	// Capped is set when growth stopped at the pixel cap.
	Capped bool
}

// Stats describes the work done by the last Detect call.
type Stats struct {
	Checked int
	Matched int
	Regions int
	Stride  int
	Largest int
}

// Segmenter scans frames for blobs. Visited state and the growth queue are
// reused across frames so steady-state detection does not allocate.
// Not safe for concurrent use.
type Segmenter struct {
	policy  StridePolicy
	minBlob int
	maxBlob int
	logger  *slog.Logger

	w, h    int
	visited []uint64
	queue   []int32
	stats   Stats
}

// New returns a Segmenter configured from cfg. If cfg is nil the default
// configuration is used.
func New(cfg *config.Config, logger *slog.Logger) *Segmenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	minBlob, maxBlob := cfg.MinBlobPixels, cfg.MaxBlobPixels
	if minBlob < 1 {
		minBlob = 1
	}
	if maxBlob < minBlob {
		maxBlob = minBlob
	}
	return &Segmenter{
		policy:  NewStridePolicy(cfg.StrideSchedule),
		minBlob: minBlob,
		maxBlob: maxBlob,
		logger:  logger,
		queue:   make([]int32, 0, maxBlob),
	}
}

// Stats returns diagnostics for the last Detect call.
func (s *Segmenter) Stats() Stats { return s.stats }

// Detect scans f row-major on the policy stride and grows a 4-connected
// region from every unvisited matching sample. The largest region wins; ties
// keep the first found. Regions smaller than the minimum size yield false.
func (s *Segmenter) Detect(f frame.Frame, m Matcher) (Blob, bool) {
	s.stats = Stats{}
	if m == nil || !f.Valid() {
		return Blob{}, false
	}
	s.reset(f.Width, f.Height)

	var best Blob
	stride := s.policy.Stride(0)
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			idx := y*f.Width + x
			if s.seen(idx) {
				continue
			}
			s.mark(idx)
			s.stats.Checked++
			if !matches(f, m, x, y) {
				continue
			}
			s.stats.Matched++
			s.stats.Regions++
			b := s.grow(f, m, x, y)
			if b.Size > best.Size {
				best = b
				stride = s.policy.Stride(best.Size)
			}
		}
	}
	s.stats.Stride = stride
	s.stats.Largest = best.Size
	if s.logger != nil {
		s.logger.Debug("segment.detect", "checked", s.stats.Checked, "matched", s.stats.Matched, "regions", s.stats.Regions, "stride", stride, "largest", best.Size, "capped", best.Capped)
	}
	if best.Size < s.minBlob {
		return Blob{}, false
	}
	return best, true
}

// grow runs a bounded breadth-first expansion from (x, y), which the caller
// has already marked and matched.
func (s *Segmenter) grow(f frame.Frame, m Matcher, x, y int) Blob {
	w, h := f.Width, f.Height
	q := s.queue[:0]
	q = append(q, int32(y*w+x))
	sumX, sumY := x, y
	size := 1
	capped := false

	for head := 0; head < len(q) && !capped; head++ {
		p := int(q[head])
		px, py := p%w, p/w
		for _, n := range [4][2]int{{px, py - 1}, {px, py + 1}, {px - 1, py}, {px + 1, py}} {
			nx, ny := n[0], n[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if s.seen(ni) {
				continue
			}
			s.mark(ni)
			s.stats.Checked++
			if !matches(f, m, nx, ny) {
				continue
			}
			s.stats.Matched++
			if size >= s.maxBlob {
				capped = true
				break
			}
			q = append(q, int32(ni))
			sumX += nx
			sumY += ny
			size++
		}
	}
	s.queue = q[:0]
	return Blob{
		Seed:     frame.Pt(x, y),
		Centroid: frame.Position{X: float64(sumX) / float64(size), Y: float64(sumY) / float64(size)},
		Size:     size,
		Capped:   capped,
	}
}

func (s *Segmenter) reset(w, h int) {
	if w != s.w || h != s.h || s.visited == nil {
		s.w, s.h = w, h
		s.visited = make([]uint64, (w*h+63)/64)
		return
	}
	clear(s.visited)
}

func (s *Segmenter) seen(i int) bool { return s.visited[i>>6]&(1<<(uint(i)&63)) != 0 }

func (s *Segmenter) mark(i int) { s.visited[i>>6] |= 1 << (uint(i) & 63) }

func matches(f frame.Frame, m Matcher, x, y int) bool {
	r, g, b, a := f.RGBA(x, y)
	return a != 0 && m.MatchesRGB(r, g, b)
}
