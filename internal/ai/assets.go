package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"carvis-engine/internal/domain"
)

// OutreachMessage drafts a short connection request to an alum.
func (c *Client) OutreachMessage(ctx context.Context, user domain.User, alum domain.Alum) string {
	return c.Generate(ctx, fmt.Sprintf(`Draft a professional and concise LinkedIn connection request message (under 200 characters) from %s,
a graduate interested in %s,
to %s, a %s at %s. Mention their shared school connection and a genuine interest in their work.`,
		user.Name, strings.Join(user.Interests, ", "), alum.Name, alum.Role, alum.Company))
}

// TailorCV returns the top five high-impact CV changes for a job.
func (c *Client) TailorCV(ctx context.Context, cv string, job domain.Job) string {
	return c.Generate(ctx, fmt.Sprintf(`Analyze the user's CV against the job description for %s at %s.

Identify strictly the **Top 5 High-Impact Changes** required to pass the Applicant Tracking System (ATS) and impress the hiring manager.
Do NOT provide a general review. Be extremely specific, concise, and actionable.

Format the output as a clean Markdown list.
Start each bullet point with a **Bold Action Phrase** (e.g., "**Quantify your Impact**", "**Add Keywords: Python, SQL**").

**Job Description:**
%s
Skills mentioned: %s

**Current CV:**
%s`,
		job.Title, job.Company, job.Description, strings.Join(job.Skills, ", "), clip(cv, 12000)))
}

// TailorCoverLetter rewrites the base cover letter for one role, weaving in
// any contacts the user already has at the company.
func (c *Client) TailorCoverLetter(ctx context.Context, coverLetter string, user domain.User, job domain.Job) string {
	var names []string
	for _, contact := range user.NetworkContacts {
		if strings.EqualFold(contact.Company, job.Company) {
			names = append(names, contact.Name)
		}
	}
	networkingContext := ""
	if len(names) > 0 {
		networkingContext = fmt.Sprintf("The user has networked with people at %s, including %s. Subtly weave this in.",
			job.Company, strings.Join(names, " or "))
	}

	return c.Generate(ctx, fmt.Sprintf(`Rewrite the user's cover letter to be a perfect match for the %s role at %s.

Rules:
1. Keep it under 300 words.
2. Be highly specific to the company's mission and the role's requirements.
3. Use **Bold Text** for the company name, specific role, and key achievements to make it skimmable.
4. %s
5. Ensure the tone is professional, confident, and authentic to an MBA candidate.

**User Profile:**
Name: %s
Aspirations: %s

**Job Description:**
%s

**Base Cover Letter:**
%s`,
		job.Title, job.Company, networkingContext, user.Name, user.Aspirations, job.Description, coverLetter))
}

// InterviewTips produces a prep cheat sheet for one role.
func (c *Client) InterviewTips(ctx context.Context, user domain.User, job domain.Job) string {
	return c.Generate(ctx, fmt.Sprintf(`Generate a concise Interview Prep Cheat Sheet for %s at %s.

Format as Markdown. Use the following headers (###) and use **bold** for key takeaways within the text. Keep sections brief.

Structure:
1.  ### The Hook
    *   One sentence on "Why %s?" linking to their recent news or mission.
2.  ### Your Story
    *   2 bullet points connecting %s's background to this specific role.
3.  ### STAR Stories to Prep
    *   List 2 specific behavioral questions they will likely ask, and suggest which CV experience to use for each.
4.  ### Smart Questions
    *   3 high-level strategic questions to ask the interviewer (e.g., about growth, culture, or strategy).`,
		job.Title, job.Company, job.Company, user.Name))
}

// FollowUpEmail drafts the body of a polite application follow-up.
func (c *Client) FollowUpEmail(ctx context.Context, user domain.User, job domain.Job) string {
	return c.Generate(ctx, fmt.Sprintf(`Draft a polite and professional follow-up email from %s to the hiring team at %s regarding their application for the %s position.
The email should be concise.
Provide only the body of the email.`,
		user.Name, job.Company, job.Title))
}

// ComfortMessage generates the post-rejection pick-me-up, joke included.
func (c *Client) ComfortMessage(ctx context.Context, user domain.User, companyName string) string {
	return c.Generate(ctx, fmt.Sprintf(`The user, %s, was just rejected from a job application at %s.
Please generate a short, empathetic comfort message acknowledging their effort.
Then, explicitly include the phrase "Here's a joke to brighten up your day:" followed by a completely random, funny, clean joke to cheer them up.
Ensure the joke is different and creative.
Format: "Comfort Message \n\n Here's a joke to brighten up your day: \n Joke Content"`,
		user.Name, companyName))
}

// NetworkingTools is a personalized message plus coffee-chat topics.
type NetworkingTools struct {
	Message string   `json:"message"`
	Topics  []string `json:"topics"`
}

func (c *Client) GenerateNetworkingTools(ctx context.Context, user domain.User, contact domain.NetworkContact) (NetworkingTools, error) {
	prompt := fmt.Sprintf(`You are assisting %s, an aspiring professional interested in %s, in networking with %s, a %s at %s.

User's Context about Contact: %q
User's Aspirations: %q

Task 1: Draft a concise, warm, and personalized connection message (LinkedIn/Email) referencing how they met (if mentioned in context) or their shared background, and why the user wants to connect.
Task 2: Provide 3 "Quick-fire" coffee chat topics or questions that %s can ask %s that bridge the user's interests with the contact's role.

Respond with a JSON object of the form {"message":"","topics":["","",""]}.`,
		user.Name, strings.Join(user.Interests, ", "), contact.Name, contact.Role, contact.Company,
		contact.Notes, user.Aspirations, user.Name, contact.Name)

	var out NetworkingTools
	err := c.GenerateJSON(ctx, prompt, &out)
	return out, err
}

// Profile is the onboarding extraction from raw CV text.
type Profile struct {
	Name      string   `json:"name"`
	Interests []string `json:"interests"`
	Skills    []string `json:"skills"`
	WorkStyle string   `json:"workStyle"`
}

// AnalyzeProfile extracts profile fields from a CV; failure returns an
// empty profile rather than an error, matching the onboarding contract.
func (c *Client) AnalyzeProfile(ctx context.Context, cvText string) Profile {
	prompt := fmt.Sprintf(`Analyze the following CV text and extract the candidate's key profile information.

CV Content:
%q

Extract:
1. Full Name (if available, otherwise return empty string).
2. Top 5 Professional Interests (industries or roles they seem targeted towards).
3. Core Skills (Top 5 hard or soft skills mentioned).
4. Work Style (Infer their likely work style based on adjectives used like 'collaborative', 'leader', 'analytical', 'driven').

Respond with a JSON object of the form {"name":"","interests":[],"skills":[],"workStyle":""}.`,
		clip(cvText, 15000))

	var out Profile
	if err := c.GenerateJSON(ctx, prompt, &out); err != nil {
		return Profile{}
	}
	return out
}

// StarterPins seeds the pinboard with STAR-method answer snippets; failure
// returns an empty list.
func (c *Client) StarterPins(ctx context.Context, user domain.User) []domain.Pin {
	prompt := fmt.Sprintf(`Based on the user's CV and Aspirations, generate 3 highly effective "STAR Method" (Situation, Task, Action, Result) interview answer snippets.
These should be based on real experience inferred from their CV or typical scenarios for their aspiration: %q.

CV Context: %q

Respond with a JSON object of the form {"pins":[{"title":"","content":""}]} containing 3 items.`,
		user.Aspirations, clip(user.CV, 10000))

	var env struct {
		Pins []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"pins"`
	}
	if err := c.GenerateJSON(ctx, prompt, &env); err != nil {
		return nil
	}

	out := make([]domain.Pin, 0, len(env.Pins))
	for _, p := range env.Pins {
		out = append(out, domain.Pin{
			ID:      "starter-pin-" + uuid.NewString(),
			Title:   p.Title,
			Content: p.Content,
		})
	}
	return out
}
