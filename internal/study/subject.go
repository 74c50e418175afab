package study

import "regexp"

// SubjectTopic is the display-cased pair shown in the template heading.
type SubjectTopic struct {
	Subject string
	Topic   string
}

const (
	DefaultSubject = "General Knowledge"
	DefaultTopic   = "Conceptual Understanding"
)

// topicRule pairs a case-insensitive pattern with the topic it resolves to.
// Rules are evaluated in order and the first match wins, so the ordering is
// part of the contract: "force of gravity" must land on Gravitation even
// though a later rule claims bare "force".
type topicRule struct {
	pattern *regexp.Regexp
	topic   string
}

type subjectRule struct {
	pattern      *regexp.Regexp
	subject      string
	topics       []topicRule
	defaultTopic string
}

func tr(pattern, topic string) topicRule {
	return topicRule{pattern: regexp.MustCompile(`(?i)` + pattern), topic: topic}
}

var subjectRules = []subjectRule{
	{
		pattern: regexp.MustCompile(`(?i)physics|force|motion|energy|velocity|accelerat|gravity|newton|momentum|electric|magnet|\bwave|optic|thermodynamic|quantum`),
		subject: "Physics",
		topics: []topicRule{
			tr(`motion|velocity|accelerat|speed|displacement|kinematic`, "Kinematics"),
			tr(`newton|laws? of motion|inertia`, "Newton's Laws"),
			tr(`gravity|gravitational`, "Gravitation"),
			tr(`energy|work done|\bpower\b`, "Work, Energy and Power"),
			tr(`momentum|collision|impulse`, "Momentum"),
			tr(`electric|current|voltage|circuit|charge`, "Electricity"),
			tr(`magnet|electromagnetic`, "Magnetism"),
			tr(`\bwave|sound|frequency|oscillat`, "Waves and Sound"),
			tr(`light|optic|lens|mirror|refraction|reflection`, "Optics"),
			tr(`heat|thermodynamic|temperature|entropy`, "Thermodynamics"),
			tr(`force|friction|tension|pressure`, "Newton's Laws"),
		},
		defaultTopic: "General Physics",
	},
	{
		pattern: regexp.MustCompile(`(?i)chemistry|chemical|molecule|\batom|element|compound|reaction|\bacid|\bbase\b|\bbond|periodic|organic|\bmole\b|stoichiometr|\bion\b|\bionic`),
		subject: "Chemistry",
		topics: []topicRule{
			tr(`\batom|electron|proton|neutron|orbital`, "Atomic Structure"),
			tr(`\bbond|ionic|covalent|molecul`, "Chemical Bonding"),
			tr(`\bacid|\bbase\b|\bph\b|alkali`, "Acids and Bases"),
			tr(`reaction|balance|stoichiometr`, "Chemical Reactions"),
			tr(`periodic|element|\bgroup\b|\bperiod\b`, "Periodic Table"),
			tr(`organic|hydrocarbon|alkane|alkene|alkyne`, "Organic Chemistry"),
			tr(`\bmole\b|molar|concentration|solution`, "The Mole Concept"),
		},
		defaultTopic: "General Chemistry",
	},
	{
		pattern: regexp.MustCompile(`(?i)biology|\bcell|organism|\bdna\b|\brna\b|\bgene|evolution|photosynthesis|ecosystem|bacteria|virus|protein|enzyme|anatomy|physiology`),
		subject: "Biology",
		topics: []topicRule{
			tr(`\bcell|mitochondria|organelle|membrane|nucleus`, "Cell Biology"),
			tr(`\bdna\b|\brna\b|\bgene|heredity|chromosome|mutation`, "Genetics"),
			tr(`photosynthesis|chlorophyll|respiration|transpiration`, "Plant Physiology"),
			tr(`evolution|natural selection|darwin|speciation`, "Evolution"),
			tr(`ecosystem|ecology|food chain|food web|habitat`, "Ecology"),
			tr(`enzyme|protein|metabolism|digest`, "Biochemistry"),
			tr(`bacteria|virus|microb|immune|pathogen`, "Microbiology"),
		},
		defaultTopic: "General Biology",
	},
	{
		pattern: regexp.MustCompile(`(?i)math|algebra|geometry|calculus|trigonometry|equation|integral|derivative|matrix|probability|statistics|polynomial|logarithm|fraction`),
		subject: "Mathematics",
		topics: []topicRule{
			tr(`algebra|polynomial|quadratic|linear equation|variable`, "Algebra"),
			tr(`geometry|triangle|circle|angle|\barea\b|volume`, "Geometry"),
			tr(`calculus|derivative|integral|\blimit\b|differentiat`, "Calculus"),
			tr(`trigonometry|sine|cosine|tangent|\bsin\b|\bcos\b|\btan\b`, "Trigonometry"),
			tr(`probability|statistics|\bmean\b|median|variance`, "Probability and Statistics"),
			tr(`logarithm|exponent`, "Exponents and Logarithms"),
			tr(`matrix|matrices|determinant`, "Matrices"),
		},
		defaultTopic: "General Mathematics",
	},
}

// DetectSubjectAndTopic maps free text to the first matching subject and,
// within it, the first matching topic. Falls back to the General
// Knowledge/Conceptual Understanding pair when nothing matches.
func DetectSubjectAndTopic(text string) SubjectTopic {
	for _, sr := range subjectRules {
		if !sr.pattern.MatchString(text) {
			continue
		}
		for _, rule := range sr.topics {
			if rule.pattern.MatchString(text) {
				return SubjectTopic{Subject: sr.subject, Topic: rule.topic}
			}
		}
		return SubjectTopic{Subject: sr.subject, Topic: sr.defaultTopic}
	}
	return SubjectTopic{Subject: DefaultSubject, Topic: DefaultTopic}
}
