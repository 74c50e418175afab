package study

import "testing"

func TestExtractQuestion(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "ends_with_question_mark",
			text: "  What is osmosis?  ",
			want: "What is osmosis?",
		},
		{
			name: "question_clause_inside_longer_message",
			text: "I was wondering, can you explain why the sky is blue? Thanks a lot",
			want: "I was wondering, can you explain why the sky is blue?",
		},
		{
			name: "instruction_word_without_question_mark",
			text: "Calculate the area of a circle with radius 5",
			want: "the area of a circle with radius 5",
		},
		{
			name: "no_question_shape_returns_input",
			text: "Please help",
			want: "Please help",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "whitespace_only",
			text: "   ",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractQuestion(tc.text)
			if got != tc.want {
				t.Fatalf("ExtractQuestion(%q)=%q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
