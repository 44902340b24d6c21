package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/model"
	"md5-renderer/internal/postprocess"
	"md5-renderer/internal/raster"
	"md5-renderer/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	Render      raster.Options
	Workers     int
	Sink        diag.Sink // receives every warning; may be nil
	Progress    bool      // print a progress line every two seconds
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    int
	Time     float64 // seconds from the start of the clip
	File     string  // relative to the output directory
	Min, Max mathutil.Vec3
	Warnings int
	Success  bool
	Error    string
}

// Frames lists the frames to render: first..last (inclusive) every step.
// A negative last means the final frame. A static mesh renders its bind pose (-1).
func Frames(ch *model.Character, first, last, step int) []int {
	n := ch.NumFrames()
	if n == 0 {
		return []int{-1}
	}
	if last < 0 || last >= n {
		last = n - 1
	}
	first = max(first, 0)
	step = max(step, 1)
	var out []int
	for f := first; f <= last; f += step {
		out = append(out, f)
	}
	return out
}

// Run renders frames using a worker pool.
func Run(cfg Config, ch *model.Character, frames []int) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	if cfg.Render.FitPoints == nil {
		cfg.Render.FitPoints = boundsCorners(ch, frames)
	}

	start := time.Now()
	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, ch, frames[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, ch *model.Character, frame int) Result {
	res := Result{Frame: frame, File: frameFile(frame)}
	if ch.Anim != nil && ch.Anim.FrameRate > 0 && frame >= 0 {
		res.Time = float64(frame) / float64(ch.Anim.FrameRate)
	}

	var warnings diag.Collector
	sink := diag.Sink(&warnings)
	if cfg.Sink != nil {
		sink = diag.Tee{&warnings, cfg.Sink}
	}

	f, err := ch.Build(frame, sink)
	res.Warnings = len(warnings.Warnings())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Min, res.Max, _ = f.Bounds()

	img := raster.Render(ch, f, cfg.TexResolver, cfg.Render)
	img = postprocess.Downsample(img, cfg.Render.Supersample)

	outPath := filepath.Join(cfg.OutputDir, res.File)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	out, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer out.Close()

	if err := nativewebp.Encode(out, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}
	res.Success = true
	return res
}

func frameFile(frame int) string {
	if frame < 0 {
		return "bind.webp"
	}
	return fmt.Sprintf("frame_%04d.webp", frame)
}

// boundsCorners returns the corners of the union of the animation's stored
// per-frame bounds, or nil when there are none.
func boundsCorners(ch *model.Character, frames []int) []mathutil.Vec3 {
	if ch.Anim == nil || len(ch.Anim.Bounds) == 0 {
		return nil
	}
	var lo, hi mathutil.Vec3
	first := true
	for _, f := range frames {
		if f < 0 || f >= len(ch.Anim.Bounds) {
			continue
		}
		b := ch.Anim.Bounds[f]
		if first {
			lo, hi, first = b.Min, b.Max, false
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], b.Min[k])
			hi[k] = max(hi[k], b.Max[k])
		}
	}
	if first {
		return nil
	}
	var corners []mathutil.Vec3
	for i := 0; i < 8; i++ {
		c := lo
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				c[k] = hi[k]
			}
		}
		corners = append(corners, c)
	}
	return corners
}
