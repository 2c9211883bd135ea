package prompts

import "github.com/yoockh/careerpilot/internal/models"

// Stable template names. The interview names are also the keys of the
// built-in fallback table.
const (
	NameIntroduction               = "interview-introduction"
	NameQuestion                   = "interview-question"
	NameClosing                    = "interview-closing"
	NameQuestionGeneration         = "question-generation"
	NameCoverLetter                = "cover-letter"
	NameCoverLetterFallback        = "cover-letter-fallback"
	NameResumeOptimization         = "resume-optimization"
	NameResumeOptimizationFallback = "resume-optimization-fallback"
)

const (
	CategoryInterview = "interview"
	CategoryQuestions = "questions"
	CategoryAssist    = "assist"
)

const IntroductionTemplate = `You are {interviewerName}, an interviewer at {company}. You are conducting a {interviewType} interview with {candidateFirstName} for the {jobTitle} position.
Greet {candidateFirstName} warmly, introduce yourself in one or two sentences, explain that you will ask a series of questions one at a time, and ask whether they are ready to begin.
Keep it short and natural. Do not ask any interview question yet.`

const QuestionTemplate = `Continue the {interviewType} interview for the {jobTitle} position at {company} as {interviewerName}.
If {candidateFirstName} just answered a previous question, acknowledge the answer briefly without evaluating it.
Then ask exactly this question, in a natural conversational way, and wait for the answer:
"{question}"`

const ClosingTemplate = `You are {interviewerName} from {company}, and the interview with {candidateFirstName} for the {jobTitle} position is complete.
Thank {candidateFirstName} for their time, tell them the team will follow up about next steps, and say goodbye. Do not ask any further questions.`

const QuestionGenerationTemplate = `You are an experienced hiring manager preparing interview questions.

JOB TITLE: {jobTitle}
COMPANY: {company}

JOB DESCRIPTION:
{jobDescription}

CANDIDATE RESUME:
{resume}
{exclusions}
Write {technicalCount} technical questions that test the skills the job requires and {behavioralCount} behavioral questions about teamwork, ownership and communication.
Tailor the questions to the candidate's resume when one is provided.

Return ONLY a JSON object with this exact structure, no markdown, no explanation:
{"technical": ["<question>", ...], "behavioral": ["<question>", ...]}`

const CoverLetterTemplate = `Write a concise, professional cover letter for the {jobTitle} position at {company}.

JOB DESCRIPTION:
{jobDescription}

CANDIDATE RESUME:
{resume}

Use three short paragraphs, reference concrete experience from the resume, and do not invent facts. Return only the letter text.`

const CoverLetterFallbackTemplate = `Dear Hiring Manager,

I am writing to express my interest in the {jobTitle} position at {company}. My background and experience align well with the responsibilities of this role, and I am excited about the opportunity to contribute to your team.

I would welcome the chance to discuss how my skills can support {company}'s goals. Thank you for your time and consideration.

Sincerely,
{candidateName}`

const ResumeOptimizationTemplate = `You are a resume reviewer. Compare the resume with the job description for the {jobTitle} position at {company} and list specific, actionable suggestions to improve the resume for this job.

JOB DESCRIPTION:
{jobDescription}

RESUME:
{resume}

Return a plain-text bulleted list of at most 8 suggestions.`

const ResumeOptimizationFallbackTemplate = `- Mirror the key skills from the {jobTitle} job description in your skills section.
- Start each experience bullet with a strong action verb and quantify results where possible.
- Move the experience most relevant to {company} to the top of each section.
- Keep the resume to one or two pages and remove outdated or unrelated details.
- Add a short summary that states why you are a fit for the {jobTitle} role.`

var interviewVars = []string{"interviewerName", "jobTitle", "company", "interviewType", "candidateFirstName"}

// Builtin returns the fallback table. Each call returns fresh values.
func Builtin() []models.PromptTemplate {
	return []models.PromptTemplate{
		{Name: NameIntroduction, Category: CategoryInterview, Content: IntroductionTemplate, Variables: interviewVars, IsActive: true},
		{Name: NameQuestion, Category: CategoryInterview, Content: QuestionTemplate, Variables: append(append([]string{}, interviewVars...), "question"), IsActive: true},
		{Name: NameClosing, Category: CategoryInterview, Content: ClosingTemplate, Variables: interviewVars, IsActive: true},
		{Name: NameQuestionGeneration, Category: CategoryQuestions, Content: QuestionGenerationTemplate, Variables: []string{"jobTitle", "company", "jobDescription", "resume", "exclusions", "technicalCount", "behavioralCount"}, IsActive: true},
		{Name: NameCoverLetter, Category: CategoryAssist, Content: CoverLetterTemplate, Variables: []string{"jobTitle", "company", "jobDescription", "resume"}, IsActive: true},
		{Name: NameCoverLetterFallback, Category: CategoryAssist, Content: CoverLetterFallbackTemplate, Variables: []string{"jobTitle", "company", "candidateName"}, IsActive: true},
		{Name: NameResumeOptimization, Category: CategoryAssist, Content: ResumeOptimizationTemplate, Variables: []string{"jobTitle", "company", "jobDescription", "resume"}, IsActive: true},
		{Name: NameResumeOptimizationFallback, Category: CategoryAssist, Content: ResumeOptimizationFallbackTemplate, Variables: []string{"jobTitle", "company"}, IsActive: true},
	}
}
