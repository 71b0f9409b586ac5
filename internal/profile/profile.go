package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Profile is the structured candidate record produced by the external resume
// parser. It is loaded once per run and treated as read-only by the pipeline.
type Profile struct {
	Personal        Personal   `mapstructure:"personal"`
	ExperienceYears int        `mapstructure:"experience_years"`
	CurrentLevel    string     `mapstructure:"current_level"`
	JobTitles       []string   `mapstructure:"job_titles"`
	TechSkills      TechSkills `mapstructure:"tech_skills"`
	Methodologies   []string   `mapstructure:"methodologies"`
	Certifications  []string   `mapstructure:"certifications"`
	DomainsTested   []string   `mapstructure:"domains_tested"`
}

type Personal struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Phone    string `mapstructure:"phone"`
	Location string `mapstructure:"location"` // "City, Country"
}

type TechSkills struct {
	TestFrameworks       []string `mapstructure:"test_frameworks"`
	ProgrammingLanguages []string `mapstructure:"programming_languages"`
	APITesting           []string `mapstructure:"api_testing"`
	CICD                 []string `mapstructure:"ci_cd"`
	Cloud                []string `mapstructure:"cloud"`
}

// Load reads the profile JSON document from disk. The document is decoded
// defensively: unknown keys are ignored, the recognized shape is enforced.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", path, err)
	}

	var p Profile
	if err := mapstructure.Decode(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", path, err)
	}

	if p.ExperienceYears < 0 {
		return nil, fmt.Errorf("profile has negative experience_years")
	}
	if p.CurrentLevel == "" {
		p.CurrentLevel = "mid"
	}

	return &p, nil
}

// Summary returns the subset of the profile embedded into scoring prompts.
func (p *Profile) Summary() map[string]any {
	return map[string]any{
		"experience_years":      p.ExperienceYears,
		"current_level":         p.CurrentLevel,
		"job_titles":            p.JobTitles,
		"test_frameworks":       p.TechSkills.TestFrameworks,
		"programming_languages": p.TechSkills.ProgrammingLanguages,
		"api_testing":           p.TechSkills.APITesting,
		"ci_cd":                 p.TechSkills.CICD,
		"cloud":                 p.TechSkills.Cloud,
		"methodologies":         p.Methodologies,
		"certifications":        p.Certifications,
		"domains_tested":        p.DomainsTested,
	}
}

// AllSkills flattens the framework and language skill lists, the set matched
// against titles and trending skills.
func (p *Profile) AllSkills() []string {
	skills := make([]string, 0, len(p.TechSkills.TestFrameworks)+len(p.TechSkills.ProgrammingLanguages))
	skills = append(skills, p.TechSkills.TestFrameworks...)
	skills = append(skills, p.TechSkills.ProgrammingLanguages...)
	return skills
}

// City returns the first comma segment of the personal location, the value
// used for city form fields.
func (p *Profile) City() string {
	parts := strings.Split(p.Personal.Location, ",")
	return strings.TrimSpace(parts[0])
}

// HomeCountry returns the last comma segment of the personal location.
func (p *Profile) HomeCountry() string {
	parts := strings.Split(p.Personal.Location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
