package ytvideodata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestScanDocument(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
<title>Never Gonna Give You Up - YouTube</title>
<link rel="canonical" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">
<link itemprop="name" content="Rick Astley">
</head>
<body></body>
</html>`

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	title, author := scanDocument(doc)
	assert.Equal(t, "Never Gonna Give You Up - YouTube", title)
	assert.Equal(t, "Rick Astley", author)
}

func TestScanDocumentMissingMetadata(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	require.NoError(t, err)

	title, author := scanDocument(doc)
	assert.Empty(t, title)
	assert.Empty(t, author)
}

func TestExtractVideoId(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":   "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":  "dQw4w9WgXcQ",
		"dQw4w9WgXcQ":                                 "dQw4w9WgXcQ",
	}
	for rawUrl, want := range cases {
		assert.Equal(t, want, ExtractVideoId(rawUrl), rawUrl)
	}
}
