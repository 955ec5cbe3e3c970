package submission

import (
	"strings"
	"testing"
)

func TestCommentInfo_String(t *testing.T) {
	ci := CommentInfo{
		BaseFiles:      "./starter",
		Solutions:      "./solutions",
		MaxSubmissions: 10,
		Batch:          []string{"alice_1_2", "bob_3_4"},
	}
	got := ci.String()

	for _, want := range []string{
		"<b>Base files:</b> ./starter",
		"<b>Solutions:</b> ./solutions",
		"<b>Max submissions:</b> 10",
		"<b>Submissions in this batch:</b><br>alice_1_2<br>bob_3_4",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Comment missing %q:\n%s", want, got)
		}
	}

	// Sections join with a blank HTML line.
	if !strings.Contains(got, "</b> ./starter<br><br><b>Solutions") {
		t.Errorf("Sections should be separated by <br><br>:\n%s", got)
	}
}

func TestCommentInfo_String_Empty(t *testing.T) {
	if got := (CommentInfo{}).String(); got != "" {
		t.Errorf("Empty info should produce empty comment, got %q", got)
	}
}

func TestCommentInfo_String_BatchNeedsSampling(t *testing.T) {
	// Batch membership is only interesting when sampling capped it.
	ci := CommentInfo{Batch: []string{"alice_1_2"}}
	if got := ci.String(); strings.Contains(got, "batch") {
		t.Errorf("Batch list should be omitted without a sampling cap, got %q", got)
	}
}
