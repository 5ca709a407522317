package generation

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/savethebus/objection-api/internal/domain"
)

// SystemInstruction is the fixed system message sent with every generation
// request, for both providers.
const SystemInstruction = `You are an advocacy expert helping citizens of Tamil Nadu challenge Rule 288-A.
CONTEXT: Rule 288-A allows hiring/leasing for regular operations, creating a de facto bar on state procurement.
KEY TRUTH: Existing Chennai GCC (leased) buses exclude women from "Vidiyal Payanam".
GOAL: If the user provides text, optimize it for legal impact and clarity while keeping their personal voice. If not, generate from scratch.
STRESS: The state MUST purchase and own the fleet for accountability and rural welfare.
ALWAYS INCLUDE: "Public Transit is Public Property" (பொதுப் போக்குவரத்து மக்கள் சொத்து).`

const promptText = `Generate/Optimize a formal objection letter in {{.LanguageName}} for:
Name: {{.Name}}
Location: {{.Location}}
Tone: {{.Tone}}
{{.ModeText}}

Refer to Notification No. SRO A-37/2025 dated 8th December 2025 regarding Rule 288-A.
Must include:
1. Objections to hiring buses for regular operations (de facto procurement bar).
2. The failure of Chennai GCC to provide free travel for women.
3. Long-term costs of private dependency vs state ownership.

Output JSON format:
{
  "subject": "Email subject in {{.LanguageName}}",
  "body": "Complete letter body in {{.LanguageName}}"
}`

var promptTemplate = template.Must(template.New("objection").Parse(promptText))

type promptData struct {
	LanguageName string
	Name         string
	Location     string
	Tone         domain.ObjectionTone
	ModeText     string
}

// BuildPrompt renders the user instruction for the upstream model. It is
// pure and deterministic and has no error path: the template is parsed once
// at init and executes over plain strings.
func BuildPrompt(req *domain.ObjectionRequest) string {
	modeText := fmt.Sprintf(
		"Generate a new letter from scratch using these concerns: %s.",
		strings.Join(req.Concerns, ", "),
	)
	if req.Mode == domain.ModeManual && req.CustomText != "" {
		modeText = fmt.Sprintf(
			"The user has provided their own input: %q. Optimize and enhance this text to be a formal legal objection.",
			req.CustomText,
		)
	}

	var sb strings.Builder
	// An error here means the template constant itself is broken.
	if err := promptTemplate.Execute(&sb, promptData{
		LanguageName: req.Language.Name(),
		Name:         req.Name,
		Location:     req.Location,
		Tone:         req.Tone,
		ModeText:     modeText,
	}); err != nil {
		panic(err)
	}

	return sb.String()
}
