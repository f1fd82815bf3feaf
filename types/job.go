package types

import (
	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/banner"
)

// OverlayRequest describes a single banner overlay job: fetch the source,
// burn the banner, publish, return the URL.
type OverlayRequest struct {
	SourceURL   string `json:"source_url"`
	LabelName   string `json:"label_name"`
	PlatformTag string `json:"platform_tag"`
	// DurationSeconds overrides the measured duration when positive; zero
	// means "use what the prober measured".
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	Banner          *banner.Config `json:"banner,omitempty"`
}

// Validate checks the request shape before any work is scheduled.
func (r *OverlayRequest) Validate() error {
	const op = "types.overlay_request.validate"
	if r.SourceURL == "" {
		return apperrors.Validation(op, nil, "source_url is required")
	}
	if r.LabelName == "" {
		return apperrors.Validation(op, nil, "label_name is required")
	}
	if r.PlatformTag == "" {
		return apperrors.Validation(op, nil, "platform_tag is required")
	}
	if r.DurationSeconds < 0 {
		return apperrors.Validation(op, nil, "duration_seconds must be positive when set")
	}
	return nil
}

// BatchOverlayRequest renders one source video once per platform tag,
// sharing a single download and probe across the tags.
type BatchOverlayRequest struct {
	SourceURL       string         `json:"source_url"`
	LabelName       string         `json:"label_name"`
	PlatformTags    []string       `json:"platform_tags"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	Banner          *banner.Config `json:"banner,omitempty"`
}

// Validate checks the batch request shape before any work is scheduled.
func (r *BatchOverlayRequest) Validate() error {
	const op = "types.batch_request.validate"
	if r.SourceURL == "" {
		return apperrors.Validation(op, nil, "source_url is required")
	}
	if r.LabelName == "" {
		return apperrors.Validation(op, nil, "label_name is required")
	}
	if len(r.PlatformTags) == 0 {
		return apperrors.Validation(op, nil, "platform_tags must not be empty")
	}
	for _, tag := range r.PlatformTags {
		if tag == "" {
			return apperrors.Validation(op, nil, "platform_tags must not contain empty tags")
		}
	}
	if r.DurationSeconds < 0 {
		return apperrors.Validation(op, nil, "duration_seconds must be positive when set")
	}
	return nil
}

// OverlayResult is one published rendition.
type OverlayResult struct {
	PlatformTag string `json:"platform_tag"`
	URL         string `json:"url"`
}
