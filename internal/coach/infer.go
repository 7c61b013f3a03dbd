package coach

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Subjects.
const (
	SubjectNumeracy    = "Numeracy (Mathematics)"
	SubjectConventions = "Language Conventions"
	SubjectReading     = "Reading"
	SubjectWriting     = "Writing"
	SubjectGeneral     = "NAPLAN Assessment"
)

// InferSubject guesses the subject from a quiz name.
func InferSubject(quizName string) string {
	q := strings.ToLower(quizName)
	switch {
	case strings.Contains(q, "numeracy"), strings.Contains(q, "math"):
		return SubjectNumeracy
	case strings.Contains(q, "convention"):
		return SubjectConventions
	case strings.Contains(q, "reading"):
		return SubjectReading
	case strings.Contains(q, "writing"):
		return SubjectWriting
	}
	return SubjectGeneral
}

var (
	yearBefore = regexp.MustCompile(`(?i)\b(?:year|yr|grade)\s*([3579])\b`)
	yearAfter  = regexp.MustCompile(`(?i)\b([3579])\s*(?:year|yr|grade)\b`)
)

func naplanYear(n int) bool {
	return n == 3 || n == 5 || n == 7 || n == 9
}

// InferYear reads the year level from the document, then from the quiz
// name. Only NAPLAN years 3, 5, 7 and 9 are accepted.
func InferYear(doc gjson.Result, quizName string) *int {
	for _, key := range []string{"year_level", "yearLevel", "grade", "year"} {
		v := doc.Get(key)
		switch v.Type {
		case gjson.Number:
			if n := int(v.Num); naplanYear(n) {
				return &n
			}
		case gjson.String:
			if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil && naplanYear(n) {
				return &n
			}
		}
	}

	for _, re := range []*regexp.Regexp{yearBefore, yearAfter} {
		if m := re.FindStringSubmatch(quizName); m != nil {
			n, _ := strconv.Atoi(m[1])
			return &n
		}
	}

	compact := strings.ReplaceAll(strings.ToLower(quizName), " ", "")
	for _, n := range []int{3, 5, 7, 9} {
		d := strconv.Itoa(n)
		if strings.Contains(compact, "year"+d) || strings.Contains(compact, "yr"+d) || strings.Contains(compact, "grade"+d) {
			return &n
		}
	}
	return nil
}
