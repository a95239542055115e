package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scholar-api/internal/domain"
)

const structuredReport = `# Discovery Report

## Textbooks

1. **Title:** Introduction to Algorithms
   **URL:** https://mitpress.mit.edu/clrs
   **Type:** textbook
   **Source:** MIT Press

2. **Title:** Linear Algebra Done Right
   **URL:** https://linear.axler.net/
   **Type:** Textbook

## Practice Materials

- Title: Problem Set 1
  URL: https://ocw.mit.edu/ps1.pdf
- Title: Final Exam 2019
  URL: https://ocw.mit.edu/final2019.pdf
  Type: exam
`

func TestNormalize_StructuredReport(t *testing.T) {
	t.Parallel()

	records := Normalize(structuredReport)
	require.Len(t, records, 4)

	assert.Equal(t, "Introduction to Algorithms", records[0].Title)
	assert.Equal(t, "https://mitpress.mit.edu/clrs", records[0].URL)
	assert.Equal(t, domain.ResourceTypeTextbook, records[0].Type)
	assert.Equal(t, "MIT Press", records[0].Metadata["source"])
	assert.Equal(t, "Textbooks", records[0].Metadata["section"])

	// Explicit type labels are matched case-insensitively.
	assert.Equal(t, "Linear Algebra Done Right", records[1].Title)
	assert.Equal(t, domain.ResourceTypeTextbook, records[1].Type)

	// No type label: inferred from title and section keywords.
	assert.Equal(t, "Problem Set 1", records[2].Title)
	assert.Equal(t, domain.ResourceTypeProblemSet, records[2].Type)

	assert.Equal(t, "Final Exam 2019", records[3].Title)
	assert.Equal(t, domain.ResourceTypeExam, records[3].Type)

	// Document order is preserved.
	urls := make([]string, 0, len(records))
	for _, r := range records {
		urls = append(urls, r.URL)
	}
	assert.Equal(t, []string{
		"https://mitpress.mit.edu/clrs",
		"https://linear.axler.net/",
		"https://ocw.mit.edu/ps1.pdf",
		"https://ocw.mit.edu/final2019.pdf",
	}, urls)
}

func TestNormalize_HeuristicFallback(t *testing.T) {
	t.Parallel()

	raw := `Here are the resources I found:

### Lecture Videos
MIT OpenCourseWare 6.006 Lectures
https://www.youtube.com/playlist?list=abc123

### Exams
Midterm with solutions — https://ocw.mit.edu/midterm.pdf
[Final Exam](https://ocw.mit.edu/final.pdf)
`

	records := Normalize(raw)
	require.Len(t, records, 3)

	// Bare URL takes the nearest preceding non-empty line as its title.
	assert.Equal(t, "MIT OpenCourseWare 6.006 Lectures", records[0].Title)
	assert.Equal(t, domain.ResourceTypeLectureVideo, records[0].Type)
	assert.Equal(t, "Lecture Videos", records[0].Metadata["section"])

	// Same-line text before the URL wins over the preceding line.
	assert.Equal(t, "Midterm with solutions", records[1].Title)
	assert.Equal(t, domain.ResourceTypeExam, records[1].Type)

	// Markdown links carry their own title.
	assert.Equal(t, "Final Exam", records[2].Title)
	assert.Equal(t, "https://ocw.mit.edu/final.pdf", records[2].URL)
	assert.Equal(t, domain.ResourceTypeExam, records[2].Type)
}

func TestNormalize_NoURLsReturnsEmpty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"no resources were found for this course",
		"Title: something\nDescription: but no link anywhere",
		strings.Repeat("lorem ipsum dolor sit amet\n", 500),
	} {
		records := Normalize(raw)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestNormalize_FragmentDeduplication(t *testing.T) {
	t.Parallel()

	// Fixed policy: fragments are dropped before comparison, so these two
	// entries identify the same resource and the first one wins.
	raw := "- Intro to Algorithms — https://x.edu/book.pdf\n" +
		"- Problem Set 1 — https://x.edu/book.pdf#ps1\n"

	records := Normalize(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Intro to Algorithms", records[0].Title)
	assert.Equal(t, "https://x.edu/book.pdf", records[0].URL)
}

func TestNormalize_QueryStringsStayDistinct(t *testing.T) {
	t.Parallel()

	raw := "Problem Set 1 — https://x.edu/materials?week=1\n" +
		"Problem Set 2 — https://x.edu/materials?week=2\n"

	records := Normalize(raw)
	require.Len(t, records, 2)
}

func TestNormalize_DuplicateURLFirstTitleWins(t *testing.T) {
	t.Parallel()

	raw := "Course Textbook — https://X.EDU/book.pdf\n" +
		"The same book again — https://x.edu/book.pdf\n" +
		"Trailing slash variant — https://x.edu/book.pdf/\n"

	records := Normalize(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Course Textbook", records[0].Title)
}

func TestNormalize_TitleDefaultsToURL(t *testing.T) {
	t.Parallel()

	records := Normalize("https://ocw.mit.edu/resources.pdf")
	require.Len(t, records, 1)
	assert.Equal(t, "https://ocw.mit.edu/resources.pdf", records[0].Title)
	assert.Equal(t, domain.ResourceTypeOther, records[0].Type)
}

func TestNormalize_StructuredWinsOverHeuristic(t *testing.T) {
	t.Parallel()

	// Labeled fields plus a stray prose URL: the structured strategy
	// yields records, so the heuristic never runs and the stray URL in
	// prose is not extracted.
	raw := `Title: Intro to Algorithms
URL: https://x.edu/book.pdf

See also https://example.com/unrelated for background.
`

	records := Normalize(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "https://x.edu/book.pdf", records[0].URL)
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://X.EDU/Book.pdf", "https://x.edu/Book.pdf"},
		{"strips default https port", "https://x.edu:443/a", "https://x.edu/a"},
		{"strips default http port", "http://x.edu:80/a", "http://x.edu/a"},
		{"keeps explicit port", "https://x.edu:8443/a", "https://x.edu:8443/a"},
		{"strips trailing slash", "https://x.edu/a/", "https://x.edu/a"},
		{"drops fragment", "https://x.edu/a#frag", "https://x.edu/a"},
		{"keeps query", "https://x.edu/a?b=1", "https://x.edu/a?b=1"},
		{"rejects relative", "x.edu/a", ""},
		{"rejects non-http scheme", "ftp://x.edu/a", ""},
		{"rejects garbage", "://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanonicalURL(tt.in))
		})
	}
}

func TestCleanURLToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://x.edu/a", cleanURLToken("https://x.edu/a."))
	assert.Equal(t, "https://x.edu/a", cleanURLToken("https://x.edu/a),"))
	assert.Equal(t,
		"https://en.wikipedia.org/wiki/Algorithm_(disambiguation)",
		cleanURLToken("https://en.wikipedia.org/wiki/Algorithm_(disambiguation)"))
}

func TestInferType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		context string
		want    domain.ResourceType
	}{
		{"Problem Set 3", domain.ResourceTypeProblemSet},
		{"Practice Midterm", domain.ResourceTypeExam},
		{"Lecture 1 video", domain.ResourceTypeLectureVideo},
		{"Course textbook (3rd edition)", domain.ResourceTypeTextbook},
		{"Syllabus", domain.ResourceTypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, inferType(tt.context), "context %q", tt.context)
	}
}
