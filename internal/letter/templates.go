package letter

import "github.com/savethebus/objection-api/internal/domain"

// TopicKey selects a pre-written template variant.
type TopicKey string

// Available template topics
const (
	TopicGeneral TopicKey = "general"
	TopicWomen   TopicKey = "women"
	TopicRural   TopicKey = "rural"
)

// Template is a fixed subject/body pair for one language and topic.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Topics lists the template keys in presentation order.
func Topics() []TopicKey {
	return []TopicKey{TopicGeneral, TopicWomen, TopicRural}
}

// Lookup returns the template for the given language and topic. Unknown
// languages fall back to English and unknown topics to the general template,
// so a template is always returned.
func Lookup(lang domain.Language, topic TopicKey) Template {
	byTopic, ok := backupTemplates[lang]
	if !ok {
		byTopic = backupTemplates[domain.LanguageEnglish]
	}

	tpl, ok := byTopic[topic]
	if !ok {
		tpl = byTopic[TopicGeneral]
	}

	return tpl
}

// Catalog returns all templates for a language keyed by topic, for callers
// that let users browse templates to pre-fill manual text.
func Catalog(lang domain.Language) map[TopicKey]Template {
	byTopic, ok := backupTemplates[lang]
	if !ok {
		byTopic = backupTemplates[domain.LanguageEnglish]
	}

	out := make(map[TopicKey]Template, len(byTopic))
	for topic, tpl := range byTopic {
		out[topic] = tpl
	}
	return out
}

var backupTemplates = map[domain.Language]map[TopicKey]Template{
	domain.LanguageEnglish: {
		TopicGeneral: {
			Subject: "Objection to Rule 288-A - Demand for State-Owned Fleet Procurement",
			Body: `To,
The Additional Chief Secretary to Government,
Home Department, Secretariat, Chennai-600 009.

Ref: Notification No. SRO A-37/2025 dated 8th December 2025 regarding Rule 288-A.

I formally object to the proposed amendment of Rule 288-A. Enabling hiring for regular operations creates a de facto bar on new bus procurement. Public transport must be a state-owned social service. Private leasing models lead to dependency and dismantle the legacy of social justice.

Demand the state rescind this amendment. "Public Transit is Public Property" (பொதுப் போக்குவரத்து மக்கள் சொத்து).`,
		},
		TopicWomen: {
			Subject: "Objection to Rule 288-A - Protecting Women's Free Travel Rights",
			Body: `To,
The Additional Chief Secretary, Home Dept, Secretariat.

Rule 288-A allows hiring/leasing for regular bus operations. Chennai's existing GCC (leased) buses already deny women the Vidiyal Payanam free travel. Expanding this model statewide will end free mobility for millions of women. I demand the Govt continue purchasing state-owned buses to protect our welfare schemes.`,
		},
		TopicRural: {
			Subject: "Objection to Rule 288-A - Ensuring Rural Connectivity",
			Body: `To,
The Additional Chief Secretary, Home Dept, Secretariat.

Private leased buses under Rule 288-A will only focus on profitable routes. Only a state-owned fleet ensures buses reach remote villages. I object to any rule that creates a de facto bar on state procurement of new buses.`,
		},
	},
	domain.LanguageTamil: {
		TopicGeneral: {
			Subject: "விதி 288-A திருத்தத்திற்கு எதிர்ப்பு - அரசுப் பேருந்துகள் கொள்முதல் செய்யக் கோரிக்கை",
			Body: `பெறுநர்,
கூடுதல் தலைமைச் செயலாளர்,
உள்துறை, தலைமைச் செயலகம், சென்னை-600 009.

விதி 288-A திருத்தம் அரசுப் பேருந்துகளை வாங்குவதைத் தவிர்த்து, தனியார் வாடகை முறையை ஊக்குவிக்கிறது. இது மறைமுகமாக அரசுப் பேருந்து கொள்முதலை முடக்கும் செயலாகும். பொதுப் போக்குவரத்து என்பது மக்களின் சொத்து. அதைத் தனியார் லாபத்திற்காகக் கைவிடுவது சமூக நீதிக்கு எதிரானது. "பொதுப் போக்குவரத்து மக்கள் சொத்து".`,
		},
		TopicWomen: {
			Subject: "விதி 288-A எதிர்ப்பு - பெண்களின் இலவசப் பயண உரிமையைப் பாதுகாக்கக் கோரிக்கை",
			Body:    `சென்னையில் ஏற்கனவே உள்ள வாடகை (GCC) பேருந்துகளில் பெண்களுக்கு இலவசப் பயணம் (விடியல் பயணம்) கிடையாது. விதி 288-A இந்த முறையை மாநிலம் முழுவதும் கொண்டு வருவது பெண்களின் பயண உரிமையைப் பறிக்கும். எனவே அரசு தனது சொந்தப் பேருந்துகளை வாங்கி இயக்க வேண்டும்.`,
		},
		TopicRural: {
			Subject: "விதி 288-A எதிர்ப்பு - கிராமப்புற பேருந்து சேவையை உறுதி செய்யக் கோரிக்கை",
			Body:    `தனியார் வாடகை பேருந்துகள் லாபம் உள்ள வழித்தடங்களில் மட்டுமே இயங்கும். அரசுக்குச் சொந்தமான பேருந்துகள் மட்டுமே குக்கிராமங்களுக்குச் சேவையை உறுதி செய்யும். விதி 288-A மூலம் அரசு பேருந்து வாங்குவதைத் தவிர்ப்பது கிராமப்புற மக்களைப் பாதிக்கும்.`,
		},
	},
}
