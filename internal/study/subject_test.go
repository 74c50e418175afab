package study

import "testing"

func TestDetectSubjectAndTopic(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		wantSubject string
		wantTopic   string
	}{
		{
			name:        "gravity_wins_over_bare_force",
			text:        "What is the force of gravity acting on a falling object?",
			wantSubject: "Physics",
			wantTopic:   "Gravitation",
		},
		{
			name:        "newtons_laws_by_name",
			text:        "State Newton's second law",
			wantSubject: "Physics",
			wantTopic:   "Newton's Laws",
		},
		{
			name:        "bare_force_still_newtons_laws",
			text:        "How does friction force slow things down",
			wantSubject: "Physics",
			wantTopic:   "Newton's Laws",
		},
		{
			name:        "kinematics_before_force",
			text:        "A car accelerates from rest, find the force",
			wantSubject: "Physics",
			wantTopic:   "Kinematics",
		},
		{
			name:        "chemistry_reactions",
			text:        "How do I balance chemical equations?",
			wantSubject: "Chemistry",
			wantTopic:   "Chemical Reactions",
		},
		{
			name:        "biology_cell",
			text:        "What does the cell membrane do?",
			wantSubject: "Biology",
			wantTopic:   "Cell Biology",
		},
		{
			name:        "math_algebra",
			text:        "Solve the quadratic equation x^2 + 5x + 6 = 0",
			wantSubject: "Mathematics",
			wantTopic:   "Algebra",
		},
		{
			name:        "physics_beats_math_in_chain_order",
			text:        "Calculate the velocity using this equation",
			wantSubject: "Physics",
			wantTopic:   "Kinematics",
		},
		{
			name:        "no_match_default_pair",
			text:        "What should I cook for dinner",
			wantSubject: DefaultSubject,
			wantTopic:   DefaultTopic,
		},
		{
			name:        "empty_default_pair",
			text:        "",
			wantSubject: DefaultSubject,
			wantTopic:   DefaultTopic,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectSubjectAndTopic(tc.text)
			if got.Subject != tc.wantSubject || got.Topic != tc.wantTopic {
				t.Fatalf("DetectSubjectAndTopic(%q)={%q,%q}, want {%q,%q}",
					tc.text, got.Subject, got.Topic, tc.wantSubject, tc.wantTopic)
			}
		})
	}
}

func TestDetectSubjectAndTopicIdempotent(t *testing.T) {
	text := "Explain the gravitational force between two masses"
	first := DetectSubjectAndTopic(text)
	for i := 0; i < 3; i++ {
		if got := DetectSubjectAndTopic(text); got != first {
			t.Fatalf("DetectSubjectAndTopic(%q) changed between calls: %+v then %+v", text, first, got)
		}
	}
}
