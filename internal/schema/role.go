package schema

import (
	"strings"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/content"
)

// FAQPage is a list of questions with accepted answers.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// Question is one FAQ entry.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is the accepted answer of a Question.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// HowTo is a sequence of steps.
type HowTo struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Step        []HowToStep `json:"step"`
}

// HowToStep is one step of a HowTo.
type HowToStep struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// RoleFAQ answers the common questions about writing a resume for role. Questions
// whose answer list is empty are left out; MainEntity may be empty but never nil.
func RoleFAQ(role content.JobRole) FAQPage {
	qs := make([]Question, 0, 4)
	add := func(q, a string) {
		qs = append(qs, Question{
			Type:           "Question",
			Name:           q,
			AcceptedAnswer: Answer{Type: "Answer", Text: a},
		})
	}
	if len(role.Skills) > 0 {
		add("What skills should I put on a "+role.Name+" resume?",
			"The most important skills for a "+role.Name+" resume are "+joinList(role.Skills)+".")
	}
	if len(role.Keywords) > 0 {
		add("What keywords should a "+role.Name+" resume include?",
			"Applicant tracking systems look for keywords such as "+joinList(role.Keywords)+".")
	}
	if len(role.Tips) > 0 {
		add("How do I make my "+role.Name+" resume stand out?", sentences(role.Tips))
	}
	if len(role.CommonMistakes) > 0 {
		add("What mistakes should I avoid on a "+role.Name+" resume?", sentences(role.CommonMistakes))
	}
	return FAQPage{Context: Context, Type: "FAQPage", MainEntity: qs}
}

// RoleHowTo turns the role's tips into steps, followed by one step per common
// mistake to avoid.
func RoleHowTo(role content.JobRole) HowTo {
	steps := make([]HowToStep, 0, len(role.Tips)+len(role.CommonMistakes))
	for _, tip := range role.Tips {
		steps = append(steps, HowToStep{Type: "HowToStep", Position: len(steps) + 1, Name: tip, Text: tip})
	}
	for _, m := range role.CommonMistakes {
		steps = append(steps, HowToStep{Type: "HowToStep", Position: len(steps) + 1, Name: "Avoid: " + m, Text: "Avoid this common mistake: " + m})
	}
	return HowTo{
		Context:     Context,
		Type:        "HowTo",
		Name:        "How to write a " + role.Name + " resume",
		Description: role.Description,
		Step:        steps,
	}
}

// RoleBreadcrumbs is Home > Resume Guides > <Name> Resume.
func RoleBreadcrumbs(site config.SiteConfig, role content.JobRole) BreadcrumbList {
	return Breadcrumbs(site,
		Crumb{Name: "Resume Guides", Route: content.RoleHubRoute},
		Crumb{Name: role.Name + " Resume", Route: content.RoleRoute(role.Slug)},
	)
}

// RoleHubList lists every role landing page in source order.
func RoleHubList(site config.SiteConfig, roles []content.JobRole) ItemList {
	links := make([]Link, 0, len(roles))
	for _, r := range roles {
		links = append(links, Link{Name: r.Name + " Resume Guide", Route: content.RoleRoute(r.Slug)})
	}
	return NewItemList(site, "Resume Guides by Job Role", links)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

func sentences(items []string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if !strings.HasSuffix(it, ".") && !strings.HasSuffix(it, "!") && !strings.HasSuffix(it, "?") {
			it += "."
		}
		parts = append(parts, it)
	}
	return strings.Join(parts, " ")
}
