package docgen

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is a relative link in a rendered page whose target is missing.
type BrokenLink struct {
	Page   string
	Target string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.Target)
}

// extractRelativeLinks returns href and src values of a rendered page that
// point at other files of the site. Absolute URLs, rooted paths and
// fragment-only references are left out.
func extractRelativeLinks(page []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "href" && attr.Key != "src" {
					continue
				}
				if target, ok := relativeTarget(attr.Val); ok {
					links = append(links, target)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func relativeTarget(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "/") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

// verifyLinks checks every relative link of the given pages (slash paths
// relative to outDir) against the files present in outDir.
func verifyLinks(outDir string, pages []string) ([]BrokenLink, error) {
	var broken []BrokenLink
	for _, page := range pages {
		data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(page)))
		if err != nil {
			return nil, err
		}
		links, err := extractRelativeLinks(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		for _, link := range links {
			target := path.Join(path.Dir(page), link)
			if strings.HasPrefix(target, "../") || target == ".." {
				broken = append(broken, BrokenLink{Page: page, Target: link})
				continue
			}
			info, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(target)))
			if err != nil {
				broken = append(broken, BrokenLink{Page: page, Target: link})
				continue
			}
			if info.IsDir() {
				if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(target), "index.html")); err != nil {
					broken = append(broken, BrokenLink{Page: page, Target: link})
				}
			}
		}
	}
	return broken, nil
}
