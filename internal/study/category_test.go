package study

import "testing"

func TestDetermineCategory(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		query   string
		content string
		want    Category
	}{
		{
			name:    "clear_biology",
			title:   "Photosynthesis",
			query:   "how does photosynthesis work",
			content: "cells use chlorophyll, the dna in the gene controls the enzyme",
			want:    CategoryBiology,
		},
		{
			name:    "clear_physics",
			title:   "Momentum",
			query:   "force and momentum",
			content: "velocity times mass gives momentum, energy is conserved",
			want:    CategoryPhysics,
		},
		{
			name:    "tie_resolves_to_earlier_category",
			title:   "",
			query:   "force atom",
			content: "",
			want:    CategoryPhysics,
		},
		{
			name:    "technology_remaps_via_secondary_vote",
			title:   "Simulation",
			query:   "software programming algorithm",
			content: "the cell and its dna",
			want:    CategoryBiology,
		},
		{
			name:    "history_maps_to_other",
			title:   "Rome",
			query:   "the ancient empire",
			content: "a medieval war changed history",
			want:    CategoryOther,
		},
		{
			name:    "no_keywords_is_other",
			title:   "zzz",
			query:   "qqq",
			content: "",
			want:    CategoryOther,
		},
		{
			name:    "science_remap_defaults_to_physics",
			title:   "The scientific method",
			query:   "experiment hypothesis research",
			content: "observation and data",
			want:    CategoryPhysics,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineCategory(tc.title, tc.query, tc.content)
			if got != tc.want {
				t.Fatalf("DetermineCategory(%q,%q,%q)=%q, want %q", tc.title, tc.query, tc.content, got, tc.want)
			}
		})
	}
}

func TestDetermineCategoryIdempotent(t *testing.T) {
	first := DetermineCategory("Gravity", "what is gravity", "mass attracts mass")
	for i := 0; i < 3; i++ {
		if got := DetermineCategory("Gravity", "what is gravity", "mass attracts mass"); got != first {
			t.Fatalf("DetermineCategory changed between calls: %q then %q", first, got)
		}
	}
}
