package match

import (
	"testing"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/profile"
)

func seniorProfile() *profile.Profile {
	return &profile.Profile{
		ExperienceYears: 5,
		CurrentLevel:    "senior",
		TechSkills: profile.TechSkills{
			TestFrameworks:       []string{"Selenium"},
			ProgrammingLanguages: []string{"Java"},
		},
	}
}

func TestTitleFallbackSeniorSeleniumScenario(t *testing.T) {
	p := &job.Posting{Title: "Senior QA Automation Engineer"}

	m := TitleFallback(p, seniorProfile())

	// 50 (QA title) + 20 (senior marker); no profile skill in the title.
	if m.Score != 70 {
		t.Fatalf("expected score 70, got %d", m.Score)
	}
	if m.Recommendation != job.RecommendationApply {
		t.Fatalf("expected APPLY, got %s", m.Recommendation)
	}
	if m.ScoredBy != job.ScoredByTitleFallback {
		t.Fatalf("expected fallback provenance, got %s", m.ScoredBy)
	}
}

func TestTitleFallbackSkillInTitle(t *testing.T) {
	p := &job.Posting{Title: "Senior Selenium QA Automation Engineer"}

	m := TitleFallback(p, seniorProfile())

	// 50 (QA title) + 20 (senior marker) + 10 (Selenium in title) = 80.
	if m.Score != 80 {
		t.Fatalf("expected score 80, got %d", m.Score)
	}
	if m.Recommendation != job.RecommendationApply {
		t.Fatalf("expected APPLY, got %s", m.Recommendation)
	}
}

func TestTitleFallbackSkillBonusNotCumulative(t *testing.T) {
	p := &job.Posting{Title: "Selenium Java Test Automation Engineer"}

	m := TitleFallback(p, seniorProfile())

	// 50 + 20 (no seniority marker) + 10 (first skill only) = 80.
	if m.Score != 80 {
		t.Fatalf("expected score 80, got %d", m.Score)
	}
}

func TestTitleFallbackCap(t *testing.T) {
	// Force every bonus; the cap keeps fallback scores below a genuine AI
	// assessment ceiling.
	prof := seniorProfile()
	prof.TechSkills.TestFrameworks = []string{"QA"} // matches almost any QA title

	p := &job.Posting{Title: "QA Automation Engineer with Selenium and Java"}
	m := TitleFallback(p, prof)

	if m.Score > fallbackScoreCap {
		t.Fatalf("score %d exceeds cap %d", m.Score, fallbackScoreCap)
	}
}

func TestTitleFallbackScoreRangeAndThreshold(t *testing.T) {
	cases := []struct {
		title string
		prof  *profile.Profile
	}{
		{"Senior QA Automation Engineer", seniorProfile()},
		{"Junior Software Tester", &profile.Profile{ExperienceYears: 2}},
		{"Account Manager", seniorProfile()},
		{"Principal Quality Engineer", seniorProfile()},
		{"Backend Developer", &profile.Profile{}},
	}

	for _, tc := range cases {
		m := TitleFallback(&job.Posting{Title: tc.title}, tc.prof)
		if m.Score < 0 || m.Score > fallbackScoreCap {
			t.Fatalf("title %q: score %d out of [0, %d]", tc.title, m.Score, fallbackScoreCap)
		}
		wantApply := m.Score >= fallbackApplyThreshold
		if (m.Recommendation == job.RecommendationApply) != wantApply {
			t.Fatalf("title %q: recommendation %s inconsistent with score %d", tc.title, m.Recommendation, m.Score)
		}
	}
}

func TestTitleFallbackJuniorMatch(t *testing.T) {
	prof := &profile.Profile{ExperienceYears: 2}
	m := TitleFallback(&job.Posting{Title: "Junior QA Engineer"}, prof)

	// 50 (QA title) + 20 (junior marker matches low experience) = 70.
	if m.Score != 70 {
		t.Fatalf("expected score 70, got %d", m.Score)
	}
}

func TestTitleFallbackSeniorTitleLowExperienceGetsNoBonus(t *testing.T) {
	prof := &profile.Profile{ExperienceYears: 2}
	m := TitleFallback(&job.Posting{Title: "Senior QA Engineer"}, prof)

	if m.Score != 50 {
		t.Fatalf("expected score 50, got %d", m.Score)
	}
	if m.Recommendation != job.RecommendationApply {
		t.Fatalf("expected APPLY at threshold, got %s", m.Recommendation)
	}
}

func TestTitleFallbackMissingSkills(t *testing.T) {
	m := TitleFallback(&job.Posting{Title: "QA Engineer"}, seniorProfile())

	if len(m.MissingSkills) != 3 {
		t.Fatalf("expected 3 missing skills, got %v", m.MissingSkills)
	}
	if m.MissingSkills[0] != "Cypress (popular JS framework)" {
		t.Fatalf("expected fixed order, got %v", m.MissingSkills)
	}

	prof := seniorProfile()
	prof.TechSkills.TestFrameworks = append(prof.TechSkills.TestFrameworks, "Cypress", "Playwright", "K6")
	m = TitleFallback(&job.Posting{Title: "QA Engineer"}, prof)
	if len(m.MissingSkills) != 0 {
		t.Fatalf("expected no missing skills, got %v", m.MissingSkills)
	}
}

func TestTitleFallbackNonQATitleStillHasReasons(t *testing.T) {
	m := TitleFallback(&job.Posting{Title: "Senior Accountant"}, &profile.Profile{ExperienceYears: 5})

	// Only the seniority bonus applies.
	if m.Score != 20 {
		t.Fatalf("expected score 20, got %d", m.Score)
	}
	if len(m.Reasons) == 0 {
		t.Fatal("expected a default reason")
	}
	if m.Recommendation != job.RecommendationMaybe {
		t.Fatalf("expected MAYBE, got %s", m.Recommendation)
	}
}
