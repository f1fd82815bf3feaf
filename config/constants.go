package config

import "time"

// Encoding Constants
const (
	// VideoCodec is the video encoding codec for rendered output
	VideoCodec = "libx264"

	// AudioCodec copies the source audio stream through untouched
	AudioCodec = "copy"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Banner Default Constants
const (
	// DefaultYPercent positions the banner at ~16% of the video height
	DefaultYPercent = 0.159

	// DefaultFontSizePercent sizes the font at 4% of min(width, height)
	DefaultFontSizePercent = 0.04

	// DefaultTextColor is the gold used when no text color is configured
	DefaultTextColor = "#feb628"

	// DefaultBoxColor is the navy used when no background color is configured
	DefaultBoxColor = "#000080"
)

// Geometry Factor Constants
const (
	// GlyphCorrectionFactor compensates for drawtext anchoring the glyph-ink
	// top where the reference layout anchors the line-box top
	GlyphCorrectionFactor = 0.3

	// BoxBorderFactor scales the background box border from the font size
	BoxBorderFactor = 0.3

	// TextWidthFactor approximates rendered text width per glyph at a given
	// font size (constant-width approximation; real font metrics are not read)
	TextWidthFactor = 0.6
)

// Scroll Animation Constants
const (
	// ScrollTraversals is how many full passes the banner makes across the clip
	ScrollTraversals = 2

	// ScrollWrapGapPx is the off-screen gap before the text re-enters from the right
	ScrollWrapGapPx = 100
)

// BannerTextFormat renders the banner line: label name, then upper-cased
// platform tag.
const BannerTextFormat = "Ask for %s and mention you saw this on %s!"

// Fetch Retry Constants
const (
	// DefaultFetchAttempts is the total number of download attempts
	DefaultFetchAttempts = 5

	// DefaultFetchInitialDelay is the backoff before the second attempt;
	// it doubles for each attempt after that
	DefaultFetchInitialDelay = 2 * time.Second

	// DefaultFetchAttemptTimeout bounds a single download attempt
	DefaultFetchAttemptTimeout = 60 * time.Second
)

// YouTube Constants
const (
	// YouTubeCategoryID for Entertainment
	YouTubeCategoryID = "24"

	// YouTubeDescription is attached to every published video
	YouTubeDescription = "Promotional clip with sponsor banner."

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "public"
)

// YouTubeTags are attached to every published video
var YouTubeTags = []string{"sponsored", "promo", "shorts"}
