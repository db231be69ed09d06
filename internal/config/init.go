package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

// Init writes an example configuration file plus sample content records next to it.
// Existing files are only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Config{
		Site: SiteConfig{
			Name:    DefaultSiteName,
			BaseURL: DefaultBaseURL,
			Twitter: "@resumeanalyzerai",
			SameAs:  []string{"https://www.linkedin.com/company/resumeanalyzerai"},
		},
		Content: ContentConfig{
			Roles: "data/roles.yaml",
			Posts: "data/posts.yaml",
			Pages: "data/pages.yaml",
		},
		Output: OutputConfig{Directory: DefaultOutputDir},
		Build: BuildConfig{
			Verify:       true,
			RelatedPosts: DefaultRelatedPosts,
			RelatedRoles: DefaultRelatedRoles,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	dir := filepath.Dir(configPath)
	files := map[string][]byte{
		configPath:                                data,
		filepath.Join(dir, "data", "roles.yaml"):  []byte(sampleRoles),
		filepath.Join(dir, "data", "posts.yaml"):  []byte(samplePosts),
		filepath.Join(dir, "data", "pages.yaml"):  []byte(samplePages),
	}
	for path, content := range files {
		if path != configPath {
			if _, err := os.Stat(path); err == nil && !force {
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
				WithContext("path", filepath.Dir(path)).Build()
		}
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
				WithContext("path", path).Build()
		}
	}
	return nil
}

const sampleRoles = `- slug: chef
  name: Chef
  industry: Hospitality
  keywords: [Culinary Arts, Food Safety, Menu Planning, Kitchen Management]
  skills: [Menu Development, Food Cost Control, Team Leadership]
  description: Chefs lead kitchens, design menus and keep food quality and safety consistent.
  tips:
    - Highlight culinary education
    - Quantify covers served and food cost savings
  commonMistakes:
    - Not highlighting culinary education
    - Listing duties instead of results
- slug: software-engineer
  name: Software Engineer
  industry: Technology
  keywords: [Software Development, System Design, Cloud]
  skills: [Go, Distributed Systems, Code Review]
  description: Software engineers design, build and operate reliable software systems.
  tips:
    - Lead with measurable impact of shipped projects
    - Match the stack named in the job posting
  commonMistakes:
    - Listing every technology ever touched
- slug: registered-nurse
  name: Registered Nurse
  industry: Healthcare
  keywords: [Patient Care, Clinical Assessment, EHR]
  skills: [Medication Administration, Care Planning]
  description: Registered nurses assess patients, coordinate care and educate families.
  tips:
    - List licenses and certifications near the top
  commonMistakes:
    - Omitting unit type and patient ratios
`

const samplePosts = `- slug: ats-resume-guide
  title: How Applicant Tracking Systems Read Your Resume
  description: What ATS software looks for and how to format a resume that passes it.
  keywords: ATS, resume format, keywords
  category: Resume Tips
  readTime: 8 min read
  excerpt: Most resumes are read by software before a recruiter sees them.
  date: "2024-03-01"
- slug: resume-keywords
  title: Choosing Resume Keywords That Match the Job
  description: A practical method for mirroring job-description language without stuffing.
  keywords: resume keywords, job description
  category: Resume Tips
  readTime: 6 min read
  excerpt: Keywords decide whether your resume surfaces in recruiter searches.
  date: "2024-04-12"
- slug: career-change-resume
  title: Writing a Resume for a Career Change
  description: How to reframe transferable skills when moving into a new field.
  keywords: career change, transferable skills
  category: Career Advice
  readTime: 7 min read
  excerpt: Transferable skills carry more weight than job titles.
`

const samplePages = `- path: /
  title: Resume Analyzer AI - Instant AI Resume Feedback
  description: Upload your resume and get AI feedback on ATS compatibility, keywords and formatting.
  keywords: resume analyzer, AI resume review, ATS checker
  heading: Get AI feedback on your resume in seconds
- path: /features
  title: Features | Resume Analyzer AI
  description: ATS scoring, keyword matching and job-market insights for your resume.
  keywords: resume features, ATS score
  heading: Everything you need to land the interview
  cta: Analyze my resume
  content: |
    ## ATS compatibility score
    See how applicant tracking systems parse your resume.

    ## Keyword matching
    Compare your resume against the job description.
- path: /about
  title: About | Resume Analyzer AI
  description: Who builds Resume Analyzer AI and why.
  keywords: about resume analyzer
  heading: About Resume Analyzer AI
`
