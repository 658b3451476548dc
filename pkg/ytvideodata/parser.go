package ytvideodata

import (
	"fmt"
	"net/http"

	"golang.org/x/net/html"
)

// getFromPage scrapes the watch page for videos the oembed endpoint
// refuses (embedding disabled).
func getFromPage(videoId string) (*VideoData, error) {
	resp, err := http.Get("https://youtu.be/" + videoId)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	title, author := scanDocument(doc)

	return &VideoData{
		Title:        title,
		AuthorName:   author,
		ThumbnailUrl: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoId),
	}, nil
}

// scanDocument walks the parsed page once, picking up the <title> text and
// the channel name from <link itemprop="name" content="...">.
func scanDocument(doc *html.Node) (title, author string) {
	stack := []*html.Node{doc}
	for len(stack) > 0 {
		if title != "" && author != "" {
			break
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			case "link":
				if author == "" {
					author = channelName(n.Attr)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}

	return title, author
}

func channelName(attrs []html.Attribute) string {
	named := false
	content := ""
	for _, attr := range attrs {
		switch {
		case attr.Key == "itemprop" && attr.Val == "name":
			named = true
		case attr.Key == "content":
			content = attr.Val
		}
	}
	if !named {
		return ""
	}

	return content
}
