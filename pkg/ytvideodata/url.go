package ytvideodata

import (
	"net/url"
	"strings"
)

// ExtractVideoId pulls the 11-character video id out of the usual YouTube
// url shapes (watch?v=, youtu.be/, embed/, shorts/). The raw input is
// returned unchanged when no id can be extracted, so callers may pass bare
// ids through.
func ExtractVideoId(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl
	}

	switch {
	case strings.HasSuffix(u.Host, "youtu.be"):
		return strings.Trim(u.Path, "/")
	case strings.HasSuffix(u.Host, "youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
			}
		}
	}

	return rawUrl
}
