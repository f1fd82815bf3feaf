package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/cache"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

// Fetcher downloads a remote source video to a local scratch path.
type Fetcher interface {
	Download(ctx context.Context, url, dest string) error
}

// Prober measures a downloaded video file.
type Prober interface {
	Probe(path string) (banner.VideoMeta, error)
}

// ProbeFunc adapts a plain probe function to the Prober interface.
type ProbeFunc func(path string) (banner.VideoMeta, error)

func (f ProbeFunc) Probe(path string) (banner.VideoMeta, error) { return f(path) }

// Renderer burns resolved banner geometry onto a video.
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string, geom banner.Geometry) error
}

// Publisher moves a rendered video to its public home and returns its URL.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// PublishChecker reports whether a previously published URL is still live.
type PublishChecker interface {
	IsPublished(ctx context.Context, url string) (bool, error)
}

// ResultCache remembers published URLs keyed by job digest.
type ResultCache interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Store(ctx context.Context, key, url string) error
}

// RunnerOptions wires a Runner's collaborators. Cache and Checker are
// optional; everything else is required.
type RunnerOptions struct {
	Fetcher    Fetcher
	Prober     Prober
	Renderer   Renderer
	Publisher  Publisher
	Presets    banner.Presets
	ScratchDir string
	Cache      ResultCache
	Checker    PublishChecker
	Logger     *zap.Logger
}

// Runner drives overlay jobs through fetch, probe, resolve, render and
// publish, with scratch files cleaned up on every exit path.
type Runner struct {
	fetcher    Fetcher
	prober     Prober
	renderer   Renderer
	publisher  Publisher
	presets    banner.Presets
	scratchDir string
	cache      ResultCache
	checker    PublishChecker
	log        *zap.Logger
}

// NewRunner builds a Runner and makes sure its scratch directory exists.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.ScratchDir == "" {
		opts.ScratchDir = os.TempDir()
	}
	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", opts.ScratchDir, err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		fetcher:    opts.Fetcher,
		prober:     opts.Prober,
		renderer:   opts.Renderer,
		publisher:  opts.Publisher,
		presets:    opts.Presets,
		scratchDir: opts.ScratchDir,
		cache:      opts.Cache,
		checker:    opts.Checker,
		log:        log,
	}, nil
}

// Run executes one overlay job and returns the published URL. The input
// scratch file is removed exactly once after the job reaches any terminal
// state; the rendered output is removed as soon as publishing settles. A
// failure in any stage aborts the job with no partial result.
func (r *Runner) Run(ctx context.Context, req types.OverlayRequest) (types.OverlayResult, error) {
	if err := req.Validate(); err != nil {
		return types.OverlayResult{}, err
	}

	tag := strings.ToUpper(req.PlatformTag)
	cfg := banner.Merge(r.presets.For(tag), req.Banner)

	var key string
	if r.cache != nil {
		key = cache.Key(req.SourceURL, req.LabelName, tag, req.DurationSeconds, cfg)
		if url, ok := r.lookupCached(ctx, key); ok {
			r.log.Info("overlay served from cache",
				zap.String("platform_tag", tag),
				zap.String("url", url))
			return types.OverlayResult{PlatformTag: tag, URL: url}, nil
		}
	}

	jobID := uuid.New().String()
	inputPath := r.scratchPath("source", jobID, "")
	defer r.removeScratch(inputPath)

	r.log.Info("fetching source video",
		zap.String("job_id", jobID),
		zap.String("label_name", req.LabelName),
		zap.String("platform_tag", tag),
		zap.String("source_url", req.SourceURL))
	if err := r.fetcher.Download(ctx, req.SourceURL, inputPath); err != nil {
		return types.OverlayResult{}, err
	}

	meta, err := r.measure(inputPath, req.DurationSeconds)
	if err != nil {
		return types.OverlayResult{}, err
	}

	geom, err := banner.Resolve(cfg, meta, req.LabelName, tag)
	if err != nil {
		return types.OverlayResult{}, err
	}

	url, err := r.renderAndPublish(ctx, inputPath, r.scratchPath("overlay", jobID, tag), geom)
	if err != nil {
		return types.OverlayResult{}, err
	}

	if r.cache != nil {
		r.storeCached(ctx, key, url)
	}
	r.log.Info("overlay published",
		zap.String("job_id", jobID),
		zap.String("platform_tag", tag),
		zap.String("url", url))
	return types.OverlayResult{PlatformTag: tag, URL: url}, nil
}

// measure probes the downloaded file, then applies the caller's duration
// override when one was given. The probe always runs: banner sizing needs
// the real dimensions even when the caller already knows the duration.
func (r *Runner) measure(path string, durationOverride float64) (banner.VideoMeta, error) {
	meta, err := r.prober.Probe(path)
	if err != nil {
		return banner.VideoMeta{}, err
	}
	if durationOverride > 0 {
		meta.DurationSeconds = durationOverride
	}
	r.log.Debug("source video measured",
		zap.Int("width", meta.Width),
		zap.Int("height", meta.Height),
		zap.Float64("duration_seconds", meta.DurationSeconds))
	return meta, nil
}

// renderAndPublish renders geom onto inputPath at outputPath and publishes
// the result. The output scratch file is removed before returning, whether
// publishing succeeded or not.
func (r *Runner) renderAndPublish(ctx context.Context, inputPath, outputPath string, geom banner.Geometry) (string, error) {
	defer r.removeScratch(outputPath)

	if err := r.renderer.Render(ctx, inputPath, outputPath, geom); err != nil {
		return "", err
	}
	return r.publisher.Publish(ctx, outputPath)
}

// lookupCached returns a cached URL when one is stored and, if the publisher
// can be checked, still live. Cache failures only cost us the shortcut.
func (r *Runner) lookupCached(ctx context.Context, key string) (string, bool) {
	url, ok, err := r.cache.Lookup(ctx, key)
	if err != nil {
		r.log.Warn("result cache lookup failed", zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	if r.checker != nil {
		live, err := r.checker.IsPublished(ctx, url)
		if err != nil {
			r.log.Warn("publish check failed", zap.String("url", url), zap.Error(err))
			return "", false
		}
		if !live {
			return "", false
		}
	}
	return url, true
}

func (r *Runner) storeCached(ctx context.Context, key, url string) {
	if err := r.cache.Store(ctx, key, url); err != nil {
		r.log.Warn("result cache store failed", zap.Error(err))
	}
}

// scratchPath builds a collision-free scratch filename. The job identifier
// keeps concurrent jobs apart; the tag keeps renditions of one batch apart.
func (r *Runner) scratchPath(stage, jobID, tag string) string {
	name := stage + "-" + jobID
	if tag != "" {
		name += "-" + strings.ToLower(tag)
	}
	return filepath.Join(r.scratchDir, name+".mp4")
}

// removeScratch deletes path if it exists. Some failure paths reach cleanup
// before the file was ever written, so a missing file is not an error.
func (r *Runner) removeScratch(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		r.log.Warn("failed to remove scratch file", zap.String("path", path), zap.Error(err))
	}
}
