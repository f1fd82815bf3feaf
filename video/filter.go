package video

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kknight78/ffmpeg-banner-api/banner"
)

// BuildDrawtextFilter renders resolved banner geometry as an ffmpeg drawtext
// video filter. The x expression scrolls the text left at the resolved speed
// and wraps after the resolved travel distance:
//
//	drawtext=text='...':fontsize=43:fontcolor=#feb628:x='w-mod(t*407.900\,2547.400)':y=318
//
// fontFile is optional; when empty, ffmpeg falls back to fontconfig.
func BuildDrawtextFilter(geom banner.Geometry, fontFile string) string {
	parts := []string{
		fmt.Sprintf("text='%s'", escapeDrawtext(geom.Text)),
		fmt.Sprintf("fontsize=%d", geom.FontSizePx),
		fmt.Sprintf("fontcolor=%s", geom.TextColor),
		fmt.Sprintf("x='w-mod(t*%.3f\\,%.3f)'", geom.ScrollSpeedPx, geom.ScrollPeriodPx),
		fmt.Sprintf("y=%d", geom.BannerYPx),
	}
	if geom.ShowBackground {
		parts = append(parts,
			"box=1",
			fmt.Sprintf("boxcolor=%s", geom.BoxColor),
			fmt.Sprintf("boxborderw=%d", geom.BoxBorderPx),
		)
	}
	if fontFile != "" {
		parts = append(parts, fmt.Sprintf("fontfile='%s'", escapeFilterPath(fontFile)))
	}
	return "drawtext=" + strings.Join(parts, ":")
}

// escapeDrawtext escapes the characters drawtext treats specially inside a
// single-quoted text value: backslashes, quotes, and the % that starts a
// text-expansion sequence. Label names are caller-supplied, so this also
// keeps crafted input from breaking out of the filter graph.
func escapeDrawtext(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `'\''`,
		`%`, `%%`,
	)
	return replacer.Replace(s)
}

// escapeFilterPath converts a file path to the form the filter parser
// accepts (forward slashes, escaped drive colons).
func escapeFilterPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), ":", "\\:")
}
