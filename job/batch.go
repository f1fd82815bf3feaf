package job

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/cache"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

// RunBatch renders one source video once per platform tag. The source is
// fetched and probed exactly once; resolve, render and publish then run per
// tag in input order. Any per-tag failure aborts the whole batch after
// cleaning up the shared input file: callers get every result or none.
func (r *Runner) RunBatch(ctx context.Context, req types.BatchOverlayRequest) ([]types.OverlayResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobID := uuid.New().String()
	inputPath := r.scratchPath("source", jobID, "")
	defer r.removeScratch(inputPath)

	r.log.Info("fetching source video for batch",
		zap.String("job_id", jobID),
		zap.String("label_name", req.LabelName),
		zap.Strings("platform_tags", req.PlatformTags),
		zap.String("source_url", req.SourceURL))
	if err := r.fetcher.Download(ctx, req.SourceURL, inputPath); err != nil {
		return nil, err
	}

	meta, err := r.measure(inputPath, req.DurationSeconds)
	if err != nil {
		return nil, err
	}

	results := make([]types.OverlayResult, 0, len(req.PlatformTags))
	for _, rawTag := range req.PlatformTags {
		tag := strings.ToUpper(rawTag)
		cfg := banner.Merge(r.presets.For(tag), req.Banner)

		var key string
		if r.cache != nil {
			key = cache.Key(req.SourceURL, req.LabelName, tag, req.DurationSeconds, cfg)
			if url, ok := r.lookupCached(ctx, key); ok {
				r.log.Info("batch rendition served from cache",
					zap.String("job_id", jobID),
					zap.String("platform_tag", tag),
					zap.String("url", url))
				results = append(results, types.OverlayResult{PlatformTag: tag, URL: url})
				continue
			}
		}

		geom, err := banner.Resolve(cfg, meta, req.LabelName, tag)
		if err != nil {
			return nil, err
		}

		url, err := r.renderAndPublish(ctx, inputPath, r.scratchPath("overlay", jobID, tag), geom)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			r.storeCached(ctx, key, url)
		}
		r.log.Info("batch rendition published",
			zap.String("job_id", jobID),
			zap.String("platform_tag", tag),
			zap.String("url", url))
		results = append(results, types.OverlayResult{PlatformTag: tag, URL: url})
	}

	return results, nil
}
