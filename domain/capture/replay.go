package capture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/draw"
)

const defaultReplayFPS = 30

// ReplayGrabber plays back a directory of still images in name order and
// loops at the end. It paces Grab to the configured frame rate.
type ReplayGrabber struct {
	mu       sync.Mutex
	files    []string
	next     int
	interval time.Duration
	last     time.Time
	sleep    func(time.Duration)
}

// NewReplayGrabber lists the PNG and JPEG files in dir. fps <= 0 disables
// pacing.
func NewReplayGrabber(dir string, fps float64) (*ReplayGrabber, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFrames
	}
	sort.Strings(files)
	g := &ReplayGrabber{files: files, sleep: time.Sleep}
	if fps > 0 {
		g.interval = time.Duration(float64(time.Second) / fps)
	}
	return g, nil
}

func (g *ReplayGrabber) Name() string { return "replay" }

// Len is the number of frames in one loop.
func (g *ReplayGrabber) Len() int { return len(g.files) }

// Grab decodes the next image.
func (g *ReplayGrabber) Grab(sel *image.Rectangle) (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.interval > 0 && !g.last.IsZero() {
		if wait := g.interval - time.Since(g.last); wait > 0 {
			g.sleep(wait)
		}
	}
	g.last = time.Now()

	path := g.files[g.next]
	g.next = (g.next + 1) % len(g.files)
	img, err := decodeRGBA(path)
	if err != nil {
		return nil, err
	}
	return crop(img, sel), nil
}

func (g *ReplayGrabber) Close() error { return nil }

func decodeRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
