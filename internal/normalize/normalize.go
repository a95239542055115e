package normalize

import (
	"strings"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// strategy is one pure parsing approach applied to a raw report.
type strategy func(raw string) []domain.ResourceRecord

// strategies are tried in order; the first non-empty result wins.
var strategies = []strategy{
	parseStructured,
	parseHeuristic,
}

// Normalize converts a raw discovery report into an ordered, deduplicated
// list of resource records. It never fails: a report with no recognizable
// URL-bearing content yields an empty slice.
func Normalize(raw string) []domain.ResourceRecord {
	var records []domain.ResourceRecord
	for _, parse := range strategies {
		records = parse(raw)
		if len(records) > 0 {
			break
		}
	}
	return postProcess(records)
}

// postProcess applies the strategy-independent cleanup pass: titles are
// trimmed, records without a usable URL are dropped, a missing title
// defaults to the URL itself, and duplicates (by canonical URL) are
// collapsed keeping the first occurrence so the report's original
// ordering is preserved.
func postProcess(records []domain.ResourceRecord) []domain.ResourceRecord {
	out := make([]domain.ResourceRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		rec.URL = cleanURLToken(rec.URL)
		key := CanonicalURL(rec.URL)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec.Title = strings.TrimSpace(rec.Title)
		if rec.Title == "" {
			rec.Title = rec.URL
		}

		if rec.Type == "" {
			rec.Type = domain.ResourceTypeOther
		}

		out = append(out, rec)
	}

	return out
}

// typeKeywords maps contextual keywords to resource types. Checked in
// slice order so the more specific categories win over "textbook", which
// would otherwise swallow phrases like "problem sets from the textbook".
var typeKeywords = []struct {
	rtype    domain.ResourceType
	keywords []string
}{
	{domain.ResourceTypeLectureVideo, []string{"video", "lecture recording", "youtube", "recorded lecture"}},
	{domain.ResourceTypeExam, []string{"exam", "quiz", "midterm", "final"}},
	{domain.ResourceTypeProblemSet, []string{"problem set", "problem-set", "pset", "homework", "assignment", "exercise"}},
	{domain.ResourceTypeTextbook, []string{"textbook", "course book", "book", "isbn", "open text"}},
}

// inferType picks a resource type from keyword matches against the given
// context strings (typically the title and the surrounding section
// heading). No match yields ResourceTypeOther.
func inferType(context ...string) domain.ResourceType {
	joined := strings.ToLower(strings.Join(context, " "))
	for _, entry := range typeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(joined, kw) {
				return entry.rtype
			}
		}
	}
	return domain.ResourceTypeOther
}

// parseType maps an explicitly labeled type value from a structured
// report onto the fixed enum, falling back to keyword inference for
// loose labels ("Lecture Videos", "Practice Exams").
func parseType(label string) domain.ResourceType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "textbook":
		return domain.ResourceTypeTextbook
	case "problem-set", "problem set":
		return domain.ResourceTypeProblemSet
	case "exam":
		return domain.ResourceTypeExam
	case "lecture-video", "lecture video":
		return domain.ResourceTypeLectureVideo
	case "other", "":
		return domain.ResourceTypeOther
	default:
		return inferType(label)
	}
}
