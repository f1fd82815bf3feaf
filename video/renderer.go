package video

import (
	"context"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/config"
)

// Renderer burns resolved banner geometry onto videos with ffmpeg.
type Renderer struct {
	fontFile string
	log      *zap.Logger
}

// NewRenderer builds a Renderer. fontFile may be empty, in which case ffmpeg
// picks a font through fontconfig.
func NewRenderer(cfg config.BannerConfig, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{fontFile: cfg.FontFile, log: log}
}

// Render writes inputPath plus the scrolling banner to outputPath,
// re-encoding the video stream and copying the audio stream through
// untouched. The caller owns the scratch paths and removes any partial
// output on failure.
func (r *Renderer) Render(ctx context.Context, inputPath, outputPath string, geom banner.Geometry) error {
	const op = "video.render"

	if err := ctx.Err(); err != nil {
		return apperrors.Render(op, err, "render canceled")
	}

	filter := BuildDrawtextFilter(geom, r.fontFile)
	r.log.Debug("rendering overlay",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("filter", filter))

	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vf":     filter,
			"c:v":    config.VideoCodec,
			"c:a":    config.AudioCodec,
			"preset": config.VideoPreset,
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return apperrors.Render(op, err, "ffmpeg overlay failed")
	}
	return nil
}
