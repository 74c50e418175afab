package study

import "strings"

// Category is one label from the closed concept-card taxonomy.
type Category string

const (
	CategoryPhysics     Category = "Physics"
	CategoryChemistry   Category = "Chemistry"
	CategoryBiology     Category = "Biology"
	CategoryMathematics Category = "Mathematics"
	CategoryScience     Category = "Science"
	CategoryTechnology  Category = "Technology"
	CategoryHistory     Category = "History"
	CategoryArt         Category = "Art"
	CategoryLiterature  Category = "Literature"
	CategoryPhilosophy  Category = "Philosophy"
	CategoryHealth      Category = "Health"
	CategoryBusiness    Category = "Business"
	CategoryOther       Category = "Other"
)

type categoryRule struct {
	label    Category
	keywords []string
}

// The table order is part of the contract: scoring walks it front to back and
// a later category only wins with a strictly higher count.
var categoryRules = []categoryRule{
	{CategoryPhysics, []string{
		"physics", "force", "motion", "velocity", "acceleration", "gravity",
		"newton", "energy", "momentum", "electric", "magnet", "wave",
		"optics", "thermodynamics", "quantum", "relativity", "friction",
	}},
	{CategoryChemistry, []string{
		"chemistry", "chemical", "molecule", "atom", "element", "compound",
		"reaction", "acid", "base", "bond", "periodic", "organic",
		"electron", "ion", "solution", "catalyst", "stoichiometry",
	}},
	{CategoryBiology, []string{
		"biology", "cell", "organism", "dna", "gene", "evolution",
		"photosynthesis", "ecosystem", "bacteria", "virus", "protein",
		"enzyme", "anatomy", "physiology", "species", "chromosome",
	}},
	{CategoryMathematics, []string{
		"math", "algebra", "geometry", "calculus", "trigonometry",
		"equation", "integral", "derivative", "matrix", "probability",
		"statistics", "polynomial", "logarithm", "theorem", "fraction",
	}},
	{CategoryScience, []string{
		"science", "scientific", "experiment", "hypothesis", "laboratory",
		"research", "observation", "data", "theory", "measurement",
	}},
	{CategoryTechnology, []string{
		"technology", "computer", "software", "hardware", "programming",
		"algorithm", "internet", "network", "database", "digital",
		"artificial intelligence", "machine learning", "robot",
	}},
	{CategoryHistory, []string{
		"history", "historical", "ancient", "medieval", "war", "empire",
		"revolution", "civilization", "century", "dynasty", "archaeology",
	}},
	{CategoryArt, []string{
		"art", "painting", "sculpture", "artist", "museum", "drawing",
		"design", "color", "canvas", "gallery", "aesthetic",
	}},
	{CategoryLiterature, []string{
		"literature", "novel", "poem", "poetry", "author", "writer",
		"shakespeare", "fiction", "prose", "narrative", "metaphor",
	}},
	{CategoryPhilosophy, []string{
		"philosophy", "ethics", "morality", "logic", "metaphysics",
		"existential", "socrates", "plato", "aristotle", "epistemology",
	}},
	{CategoryHealth, []string{
		"health", "medicine", "disease", "symptom", "treatment", "diet",
		"nutrition", "exercise", "mental health", "therapy", "vaccine",
	}},
	{CategoryBusiness, []string{
		"business", "economics", "market", "finance", "investment",
		"management", "marketing", "profit", "entrepreneur", "startup",
	}},
}

// The frontend only renders these four buckets on concept cards.
var uiCategories = map[Category]bool{
	CategoryPhysics:   true,
	CategoryChemistry: true,
	CategoryBiology:   true,
	CategoryOther:     true,
}

// DetermineCategory buckets a concept card by presence-based keyword voting
// over the combined title, query and content. Ties keep the earliest
// category in table order; winners outside the 4-way UI set are remapped.
func DetermineCategory(title, query, content string) Category {
	text := strings.ToLower(title + " " + query + " " + content)

	counts := make(map[Category]int, len(categoryRules))
	best := CategoryOther
	bestCount := 0
	for _, rule := range categoryRules {
		count := 0
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		counts[rule.label] = count
		if count > bestCount {
			best = rule.label
			bestCount = count
		}
	}

	if bestCount == 0 {
		return CategoryOther
	}
	if uiCategories[best] {
		return best
	}
	return remapToUISet(best, counts)
}

// remapToUISet folds broader academic categories into the UI's 4-way set.
// Science/Technology/Mathematics winners get a second vote over the three
// hard-science buckets; anything else becomes Other.
func remapToUISet(winner Category, counts map[Category]int) Category {
	switch winner {
	case CategoryScience, CategoryTechnology, CategoryMathematics:
		for _, c := range []Category{CategoryPhysics, CategoryChemistry, CategoryBiology} {
			if counts[c] > 1 {
				return c
			}
		}
		return CategoryPhysics
	default:
		return CategoryOther
	}
}
