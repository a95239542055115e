package normalize

import (
	"regexp"
	"strings"

	"github.com/phrazzld/scholar-api/internal/domain"
)

var (
	// labelRe matches one labeled field of a structured report entry,
	// tolerating bullets, numbering, and markdown bold around the label:
	//   "- **URL:** https://x.edu/book.pdf"
	//   "2. Title: Problem Set 1"
	labelRe = regexp.MustCompile(
		`(?i)^\s*(?:[-•]\s+|\*\s+|\d+[.)]\s+)?\*{0,2}(title|name|url|link|type|category|source|description|chapter)\*{0,2}\s*[:：]\*{0,2}\s*(.*\S)\s*$`,
	)

	// headingRe matches a markdown section heading.
	headingRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)

	// boldHeadingRe matches a line that is nothing but a bold phrase,
	// which reports frequently use as a section heading.
	boldHeadingRe = regexp.MustCompile(`^\*\*([^*]+)\*\*:?\s*$`)

	// urlRe finds bare URLs embedded in prose.
	urlRe = regexp.MustCompile(`https?://[^\s<>"']+`)

	// linkRe finds markdown links, capturing the link text and target.
	linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)

	// bulletPrefixRe strips list markers from a title candidate.
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[-*•]+\s*|\d+[.)]\s*)`)
)

// parseStructured extracts records from reports that use explicit
// per-resource labeled fields. An entry is accepted once it carries a
// labeled URL; title, type, and metadata labels attach to the entry they
// precede or follow within the same block. Yields nothing when the
// report has no labeled URL fields, handing off to the next strategy.
func parseStructured(raw string) []domain.ResourceRecord {
	var (
		records []domain.ResourceRecord
		current domain.ResourceRecord
		typed   bool // explicit Type label seen for current entry
		section string
	)

	flush := func() {
		if current.URL != "" {
			if !typed {
				current.Type = inferType(current.Title, section)
			}
			if section != "" {
				if current.Metadata == nil {
					current.Metadata = map[string]string{}
				}
				if _, ok := current.Metadata["section"]; !ok {
					current.Metadata["section"] = section
				}
			}
			records = append(records, current)
		}
		current = domain.ResourceRecord{}
		typed = false
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = cleanTitle(m[1])
			continue
		}

		m := labelRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		label, value := strings.ToLower(m[1]), m[2]
		switch label {
		case "title", "name":
			if current.Title != "" {
				flush()
			}
			current.Title = cleanTitle(value)
		case "url", "link":
			if current.URL != "" {
				flush()
			}
			current.URL = extractURL(value)
		case "type", "category":
			current.Type = parseType(stripMarkup(value))
			typed = true
		case "source", "description", "chapter":
			if current.Metadata == nil {
				current.Metadata = map[string]string{}
			}
			current.Metadata[label] = stripMarkup(value)
		}
	}
	flush()

	return records
}

// parseHeuristic scans for embedded URLs line by line. Markdown links
// supply their own title; a bare URL takes the text preceding it on the
// same line, or failing that the nearest preceding non-empty non-URL
// line. Types are inferred from keywords in the title and the current
// section heading.
func parseHeuristic(raw string) []domain.ResourceRecord {
	var (
		records   []domain.ResourceRecord
		section   string
		lastTitle string
	)

	appendRecord := func(title, url string) {
		rec := domain.ResourceRecord{
			Title: title,
			URL:   url,
			Type:  inferType(title, section),
		}
		if section != "" {
			rec.Metadata = map[string]string{"section": section}
		}
		records = append(records, rec)
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			section = cleanTitle(m[1])
			lastTitle = ""
			continue
		}
		if m := boldHeadingRe.FindStringSubmatch(trimmed); m != nil && !strings.Contains(trimmed, "http") {
			section = cleanTitle(m[1])
			lastTitle = ""
			continue
		}

		for _, m := range linkRe.FindAllStringSubmatch(trimmed, -1) {
			appendRecord(cleanTitle(m[1]), m[2])
		}

		remainder := linkRe.ReplaceAllString(trimmed, "")
		urls := urlRe.FindAllStringIndex(remainder, -1)
		for i, loc := range urls {
			title := ""
			if i == 0 {
				title = cleanTitle(remainder[:loc[0]])
			}
			if title == "" {
				title = lastTitle
			}
			appendRecord(title, remainder[loc[0]:loc[1]])
		}

		if len(urls) == 0 && !strings.Contains(trimmed, "http") {
			if t := cleanTitle(trimmed); t != "" {
				lastTitle = t
			}
		}
	}

	return records
}

// extractURL pulls the URL out of a labeled field value, which may be a
// bare URL, an angle-bracketed URL, or a markdown link.
func extractURL(value string) string {
	if m := linkRe.FindStringSubmatch(value); m != nil {
		return m[2]
	}
	if m := urlRe.FindString(value); m != "" {
		return m
	}
	return ""
}

// cleanTitle strips list markers, markdown emphasis, and trailing
// separators from a title candidate.
func cleanTitle(s string) string {
	s = bulletPrefixRe.ReplaceAllString(s, "")
	s = stripMarkup(s)
	s = strings.TrimRight(s, " \t-–—:|,;(")
	return strings.TrimSpace(s)
}

// stripMarkup removes markdown emphasis markers and surrounding space.
func stripMarkup(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	return strings.TrimSpace(s)
}
