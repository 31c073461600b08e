package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"carvis-engine/internal/domain"
)

const jobJSONShape = `Respond with a JSON object of the form
{"jobs":[{"title":"","company":"","location":"","description":"","industry":"","mode":"On-site|Hybrid|Remote","visa":"Yes|No|Not Specified","status":"Open|Closed","url":"","deadline":"YYYY-MM-DD"}]}
The description is 2-3 sentences. Set each deadline to a random date in the next 30 days.`

type generatedJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Mode        string `json:"mode"`
	Visa        string `json:"visa"`
	Status      string `json:"status"`
	URL         string `json:"url"`
	Deadline    string `json:"deadline"`
}

type jobsEnvelope struct {
	Jobs []generatedJob `json:"jobs"`
}

// CuratedJobs asks the provider for roles tailored to the user's profile.
func (c *Client) CuratedJobs(ctx context.Context, user domain.User) ([]domain.Job, error) {
	prompt := fmt.Sprintf(`You are an elite career advisor for business-school graduates.

First, analyze the candidate's CV content to understand their true depth, experience, and seniority level:
%q

Then, consider their specific profile preferences:
- Personal Narrative: %s
- Career Aspirations: %s
- Core Competencies: %s
- Soft Skills: %s
- Work Style Preference: %s

Your task is to find %d job opportunities that are not just a keyword match, but a deep match for their narrative and potential.
Prioritize roles where their specific key achievements (from the CV) would be highly valued.
%s`,
		clip(user.CV, 12000),
		user.PersonalNarrative,
		user.Aspirations,
		strings.Join(user.CoreCompetencies, ", "),
		strings.Join(user.SoftSkills, ", "),
		user.WorkStyle,
		c.curatedCount,
		jobJSONShape)

	var env jobsEnvelope
	if err := c.GenerateJSON(ctx, prompt, &env); err != nil {
		return nil, err
	}
	return toJobs(env.Jobs, "c-ai-job"), nil
}

// DiscoverJobs asks the provider for a diverse general feed.
func (c *Client) DiscoverJobs(ctx context.Context) ([]domain.Job, error) {
	prompt := fmt.Sprintf(`Find %d recent, diverse job postings suitable for MBA graduates from top companies (e.g., in tech, finance, consulting).
%s`, c.discoverCount, jobJSONShape)

	var env jobsEnvelope
	if err := c.GenerateJSON(ctx, prompt, &env); err != nil {
		return nil, err
	}
	return toJobs(env.Jobs, "ai-job"), nil
}

// Enrichment is the lazily fetched company context for one job.
type Enrichment struct {
	CompanyInfo      string `json:"companyInfo"`
	CompanyNews      string `json:"companyNews"`
	IndustryNews     string `json:"industryNews"`
	RecruiterContact string `json:"recruiterContact"`
}

// EnrichJob fans out the four enrichment prompts concurrently. Individual
// failures surface as the Fallback copy in that field, not as an error.
func (c *Client) EnrichJob(ctx context.Context, job domain.Job) Enrichment {
	var e Enrichment
	var g errgroup.Group

	g.Go(func() error {
		e.CompanyInfo = c.Generate(ctx, fmt.Sprintf(
			"Provide a concise overview of %s, including its mission and recent strategic direction.", job.Company))
		return nil
	})
	g.Go(func() error {
		e.CompanyNews = c.Generate(ctx, fmt.Sprintf(
			"What are the top 3 most significant news headlines for %s in the last 6 months? Summarize each briefly.", job.Company))
		return nil
	})
	g.Go(func() error {
		e.IndustryNews = c.Generate(ctx, fmt.Sprintf(
			"Summarize the current trends and major news in %s's primary industry.", job.Company))
		return nil
	})
	g.Go(func() error {
		e.RecruiterContact = c.Generate(ctx, fmt.Sprintf(
			"Provide a plausible contact email for the recruitment team or a hiring manager at %s. If a specific person is not found, provide the general careers email address or the typical email format for %s. Return ONLY the email address string.", job.Company, job.Company))
		return nil
	})

	_ = g.Wait()
	return e
}

// FindAlumni suggests hypothetical alumni contacts at the job's company.
func (c *Client) FindAlumni(ctx context.Context, job domain.Job) ([]domain.Alum, error) {
	prompt := fmt.Sprintf(`Based on the company %q, find 2 hypothetical business-school alumni who could work there in relevant roles (e.g., hiring manager for a %s, senior team member).
Respond with a JSON object of the form {"alumni":[{"name":"","role":""}]}.`, job.Company, job.Title)

	var env struct {
		Alumni []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"alumni"`
	}
	if err := c.GenerateJSON(ctx, prompt, &env); err != nil {
		return nil, err
	}

	out := make([]domain.Alum, 0, len(env.Alumni))
	for _, a := range env.Alumni {
		out = append(out, domain.Alum{
			ID:      "alum-" + uuid.NewString(),
			Name:    a.Name,
			Role:    a.Role,
			Company: job.Company,
		})
	}
	return out, nil
}

func toJobs(gen []generatedJob, idPrefix string) []domain.Job {
	out := make([]domain.Job, 0, len(gen))
	for _, g := range gen {
		out = append(out, domain.Job{
			ID:          fmt.Sprintf("%s-%s", idPrefix, uuid.NewString()),
			Title:       g.Title,
			Company:     g.Company,
			Location:    g.Location,
			Description: g.Description,
			Industry:    g.Industry,
			Mode:        g.Mode,
			Visa:        g.Visa,
			Status:      g.Status,
			URL:         g.URL,
			Deadline:    g.Deadline,
			Skills:      []string{},
			Tenure:      "Full-time",
		})
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
