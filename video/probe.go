package video

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/banner"
)

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Probe inspects the file at path and returns its measured dimensions and
// container duration. A file that fails to probe is a corrupt or non-video
// download: the failure is terminal for the job and never retried.
func Probe(path string) (banner.VideoMeta, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return banner.VideoMeta{}, apperrors.Probe("video.probe", err,
			fmt.Sprintf("ffprobe failed for %s", path))
	}
	return parseProbe([]byte(raw))
}

// parseProbe extracts the first video stream's dimensions and the container
// duration from raw ffprobe JSON.
func parseProbe(raw []byte) (banner.VideoMeta, error) {
	const op = "video.probe"

	var result probeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return banner.VideoMeta{}, apperrors.Probe(op, err, "unparsable ffprobe output")
	}

	var stream *probeStream
	for i := range result.Streams {
		if result.Streams[i].CodecType == "video" {
			stream = &result.Streams[i]
			break
		}
	}
	if stream == nil {
		return banner.VideoMeta{}, apperrors.Probe(op, nil, "no video stream found")
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return banner.VideoMeta{}, apperrors.Probe(op, nil,
			fmt.Sprintf("invalid video dimensions %dx%d", stream.Width, stream.Height))
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return banner.VideoMeta{}, apperrors.Probe(op, err, "container duration missing or unparsable")
	}
	if duration <= 0 {
		return banner.VideoMeta{}, apperrors.Probe(op, nil, "container duration is not positive")
	}

	return banner.VideoMeta{
		Width:           stream.Width,
		Height:          stream.Height,
		DurationSeconds: duration,
	}, nil
}
