package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/format"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExtractLinks returns the http(s) URLs found in text, trailing punctuation
// removed.
func ExtractLinks(text string) []string {
	var links []string
	for _, w := range strings.Fields(text) {
		if strings.HasPrefix(w, "http://") || strings.HasPrefix(w, "https://") {
			links = append(links, strings.TrimRight(w, ".,!?;:)]}"))
		}
	}
	return links
}

// PageURL builds a link to page of the results view, keeping the other
// navigation values.
func PageURL(page, size int, view string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	if view != "" {
		v.Set("view", view)
	}
	return "/?" + v.Encode()
}

// PackageURL returns the detail page of a package code.
func PackageURL(code string) string {
	return "/package/" + url.PathEscape(code)
}

// GetTemplateFuncs returns the helpers shared by the page templates and the
// card renderers.
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Record values
		"currency": format.Currency,
		"data":     format.Data,
		"cycle":    format.Cycle,
		"int":      format.Int,
		"voice":    format.Voice,
		"text":     format.Text,
		"score":    format.Score,
		"percent":  format.Percent,
		"number":   format.Number,
		"source":   format.Source,
		"truncate": format.Truncate,
		"count":    func(n int) string { return format.Number(float64(n)) },
		"sourceLabel": func(key string) string {
			return format.Source(core.Source(key))
		},
		"sourceClass": func(s core.Source) string {
			if s.Known() {
				return "src-" + string(s)
			}
			return "src-other"
		},

		// Links
		"extractLinks": ExtractLinks,
		"pageURL":      PageURL,
		"packageURL":   PackageURL,
		"safeHTML":     func(s string) template.HTML { return template.HTML(s) },

		// Text
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(s string) string { return cases.Title(language.Und).String(s) },
		"trim":  strings.TrimSpace,
		"join":  strings.Join,
		"blank": func(s string) bool { return strings.TrimSpace(s) == "" },
		"slice": func(args ...string) []string { return args },

		"printf": fmt.Sprintf,
		"default": func(def, val string) string {
			if strings.TrimSpace(val) == "" {
				return def
			}
			return val
		},

		// Arithmetic for pagination
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}
