package fakeservice

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	maxMatched  = 20
	maxMissing  = 10
	formatScore = 85
)

var techKeywords = []string{
	"python", "java", "javascript", "react", "node", "aws", "docker",
	"kubernetes", "sql", "mongodb", "django", "flask", "spring",
	"microservices", "api", "rest", "graphql", "ci/cd", "jenkins",
	"git", "agile", "scrum", "machine learning", "ai", "data science",
}

var (
	experienceKeywords = []string{"years", "experience", "worked", "developed", "managed", "led"}
	educationKeywords  = []string{"bachelor", "master", "phd", "degree", "university", "college"}
)

// Scores is the outcome of scoring one resume against one job description.
type Scores struct {
	Overall         float64
	Skills          float64
	Experience      float64
	Education       float64
	Format          float64
	Matched         []string
	Missing         []string
	Recommendations []string
}

// Score rates a resume by keyword overlap with the job description.
func Score(resume, jobDescription string) Scores {
	resumeLower := strings.ToLower(resume)
	jobLower := strings.ToLower(jobDescription)

	resumeKeywords := keywords(resumeLower)
	jobKeywords := keywords(jobLower)

	var matched, missing []string
	for kw := range jobKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	skills := 50.0
	if len(jobKeywords) > 0 {
		skills = math.Min(float64(len(matched))/float64(len(jobKeywords))*100, 100)
	}

	s := Scores{
		Skills:     skills,
		Experience: math.Min(float64(countPresent(resumeLower, experienceKeywords)*10), 100),
		Education:  math.Min(float64(countPresent(resumeLower, educationKeywords)*15), 100),
		Format:     formatScore,
	}
	s.Overall = math.Round((s.Skills+s.Experience+s.Education+s.Format)/4*100) / 100
	s.Matched = head(matched, maxMatched)
	s.Missing = head(missing, maxMissing)
	s.Recommendations = recommendations(s.Overall, head(missing, 5))

	return s
}

func keywords(text string) map[string]struct{} {
	found := make(map[string]struct{})
	for _, kw := range techKeywords {
		if strings.Contains(text, kw) {
			found[kw] = struct{}{}
		}
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, word := range words {
		if len([]rune(word)) > 3 && isAlpha(word) {
			found[word] = struct{}{}
		}
	}

	return found
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func countPresent(text string, candidates []string) int {
	n := 0
	for _, kw := range candidates {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func recommendations(score float64, missing []string) []string {
	var out []string

	if score < 50 {
		out = append(out, "Consider adding more relevant skills from the job description")
	}
	if score < 70 {
		out = append(out, "Highlight projects that match the job requirements")
	}
	if len(missing) > 0 {
		out = append(out, fmt.Sprintf("Add these skills to your resume: %s", strings.Join(head(missing, 3), ", ")))
	}
	if score >= 80 {
		out = append(out, "Strong match! Emphasize your matching skills in your application")
	}

	if len(out) == 0 {
		return []string{"Your resume looks good!"}
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	if items == nil {
		return []string{}
	}
	return items
}
