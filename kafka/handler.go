package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

// JobRunner executes overlay jobs delivered over Kafka.
type JobRunner interface {
	Run(ctx context.Context, req types.OverlayRequest) (types.OverlayResult, error)
}

// NewOverlayHandler builds the handler for overlay job messages.
//
// Malformed and invalid messages are marked so they are never redelivered.
// Jobs that fail deterministically (bad request, bad geometry, unreadable
// media) are marked too, since running them again cannot change the outcome.
// Fetch, render and publish failures leave the message unmarked for another
// delivery.
func NewOverlayHandler(runner JobRunner, log *zap.Logger) MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TypedMessageHandler[types.OverlayRequest]{
		Logger: log,
		Validate: func(req *types.OverlayRequest) bool {
			if err := req.Validate(); err != nil {
				log.Warn("dropping invalid overlay message",
					zap.String("source_url", req.SourceURL),
					zap.Error(err))
				return false
			}
			return true
		},
		Process: func(ctx context.Context, req *types.OverlayRequest) error {
			result, err := runner.Run(ctx, *req)
			if err != nil {
				return err
			}
			log.Info("overlay job from kafka published",
				zap.String("platform_tag", result.PlatformTag),
				zap.String("url", result.URL))
			return nil
		},
		AlwaysMark: true,
		MarkOnError: func(err error) bool {
			switch apperrors.KindOf(err) {
			case apperrors.KindValidation, apperrors.KindGeometry, apperrors.KindProbe:
				return true
			}
			return false
		},
	}
}
