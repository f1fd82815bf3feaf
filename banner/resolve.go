package banner

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
)

// VideoMeta holds the measured properties of a source video. It is produced
// once per source file and never modified afterwards.
type VideoMeta struct {
	Width           int
	Height          int
	DurationSeconds float64
}

// Geometry is a fully resolved overlay: every value the renderer needs, in
// actual output pixels. BannerYPx is not clamped and may exceed the video
// height.
type Geometry struct {
	Text           string
	FontSizePx     int
	BannerYPx      int
	TextColor      string
	ShowBackground bool
	BoxColor       string // set only when ShowBackground
	BoxBorderPx    int    // set only when ShowBackground
	VideoWidth     int
	ScrollSpeedPx  float64 // horizontal speed in pixels per second, leftwards
	ScrollPeriodPx float64 // travel distance before the text re-enters
}

// XOffsetAt returns the horizontal offset of the text's left edge at elapsed
// time t in seconds: the text starts just off the right edge, moves left at
// ScrollSpeedPx, and wraps after ScrollPeriodPx of travel.
func (g Geometry) XOffsetAt(t float64) float64 {
	return float64(g.VideoWidth) - math.Mod(g.ScrollSpeedPx*t, g.ScrollPeriodPx)
}

// ScrollPeriodSeconds returns the wrap period of XOffsetAt.
func (g Geometry) ScrollPeriodSeconds() float64 {
	return g.ScrollPeriodPx / g.ScrollSpeedPx
}

// Resolve computes the overlay geometry for one job. cfg may be nil or
// partial; unset fields fall back to the package defaults. platformTag is
// rendered exactly as given; callers upper-case it beforehand. Resolve is
// deterministic and performs no I/O.
func Resolve(cfg *Config, meta VideoMeta, labelName, platformTag string) (Geometry, error) {
	const op = "banner.resolve"

	if meta.Width <= 0 || meta.Height <= 0 {
		return Geometry{}, apperrors.Geometry(op, nil,
			fmt.Sprintf("invalid video dimensions %dx%d", meta.Width, meta.Height))
	}
	if meta.DurationSeconds <= 0 {
		return Geometry{}, apperrors.Geometry(op, nil, "video duration must be positive")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	aspect := float64(meta.Width) / float64(meta.Height)
	minDim := math.Min(float64(meta.Width), float64(meta.Height))

	fontPct, err := resolveFontPercent(cfg, aspect)
	if err != nil {
		return Geometry{}, err
	}
	fontSizePx := int(math.Round(minDim * fontPct))
	if fontSizePx <= 0 {
		return Geometry{}, apperrors.Geometry(op, nil, "resolved font size is not positive")
	}

	yPct, err := resolveYPercent(cfg, aspect)
	if err != nil {
		return Geometry{}, err
	}
	bannerY := int(math.Round(float64(meta.Height)*yPct + config.GlyphCorrectionFactor*float64(fontSizePx)))

	textColor := cfg.TextColor
	if textColor == "" {
		textColor = cfg.FillColor
	}
	if textColor == "" {
		textColor = config.DefaultTextColor
	}

	geom := Geometry{
		Text:       fmt.Sprintf(config.BannerTextFormat, labelName, platformTag),
		FontSizePx: fontSizePx,
		BannerYPx:  bannerY,
		TextColor:  normalizeColor(textColor),
		VideoWidth: meta.Width,
	}

	if cfg.ShowBackground != nil && *cfg.ShowBackground {
		boxColor := cfg.BgColor
		if boxColor == "" {
			boxColor = config.DefaultBoxColor
		}
		geom.ShowBackground = true
		geom.BoxColor = normalizeColor(boxColor)
		geom.BoxBorderPx = int(math.Round(config.BoxBorderFactor * float64(fontSizePx)))
	}

	// Scroll: the text crosses the frame a fixed number of times over the
	// clip, then wraps with a fixed off-screen gap.
	textW := float64(geom.FontSizePx) * float64(utf8.RuneCountInString(geom.Text)) * config.TextWidthFactor
	travel := textW + float64(meta.Width)
	geom.ScrollSpeedPx = config.ScrollTraversals * travel / meta.DurationSeconds
	geom.ScrollPeriodPx = travel + config.ScrollWrapGapPx

	return geom, nil
}

// resolveFontPercent walks the font-size preference order: explicit percent,
// then legacy pixels converted through the reference template, then the
// default percent.
func resolveFontPercent(cfg *Config, aspect float64) (float64, error) {
	if cfg.FontSizePercent != nil {
		return *cfg.FontSizePercent, nil
	}
	if cfg.FontSize != nil {
		th, err := referenceTemplateHeight(cfg, aspect)
		if err != nil {
			return 0, err
		}
		return *cfg.FontSize / math.Min(th, th*aspect), nil
	}
	return config.DefaultFontSizePercent, nil
}

// resolveYPercent walks the vertical-position preference order: explicit
// percent, then legacy pixels divided by the reference template height, then
// the default percent.
func resolveYPercent(cfg *Config, aspect float64) (float64, error) {
	if cfg.YPercent != nil {
		return *cfg.YPercent, nil
	}
	if cfg.Y != nil {
		th, err := referenceTemplateHeight(cfg, aspect)
		if err != nil {
			return 0, err
		}
		return *cfg.Y / th, nil
	}
	return config.DefaultYPercent, nil
}

// referenceTemplateHeight returns the template height used to interpret
// legacy pixel values: the explicit one when configured, otherwise inferred
// from the source aspect ratio.
func referenceTemplateHeight(cfg *Config, aspect float64) (float64, error) {
	if cfg.TemplateHeight != nil {
		if *cfg.TemplateHeight <= 0 {
			return 0, apperrors.Geometry("banner.resolve", nil, "templateHeight must be positive")
		}
		return *cfg.TemplateHeight, nil
	}
	return inferTemplateHeight(aspect), nil
}

// inferTemplateHeight maps a source aspect ratio to the height of the layout
// template the legacy pixel values were authored against.
func inferTemplateHeight(aspect float64) float64 {
	switch {
	case aspect < 0.7:
		return 1280 // portrait (9:16)
	case aspect < 0.9:
		return 1350 // 4:5
	case aspect < 1.1:
		return 1080 // square
	default:
		return 720 // landscape
	}
}

// normalizeColor rewrites 0x-prefixed hex colors to the #-prefixed form; any
// other value passes through untouched.
func normalizeColor(c string) string {
	if len(c) > 2 && (c[:2] == "0x" || c[:2] == "0X") {
		return "#" + c[2:]
	}
	return c
}
