package submission

import (
	"slices"
	"testing"
)

func TestSampleFolders(t *testing.T) {
	folders := []string{"a", "b", "c", "d", "e"}

	t.Run("max below length samples without duplicates", func(t *testing.T) {
		got := SampleFolders(folders, 3)
		if len(got) != 3 {
			t.Fatalf("Expected 3 folders, got %d", len(got))
		}
		seen := make(map[string]bool)
		for _, f := range got {
			if seen[f] {
				t.Errorf("Duplicate folder in sample: %s", f)
			}
			seen[f] = true
			if !slices.Contains(folders, f) {
				t.Errorf("Sampled folder %s not in input", f)
			}
		}
	})

	t.Run("max above length yields every folder", func(t *testing.T) {
		got := SampleFolders(folders, 10)
		if len(got) != len(folders) {
			t.Errorf("Expected all %d folders, got %d", len(folders), len(got))
		}
	})

	t.Run("non-positive max yields every folder", func(t *testing.T) {
		got := SampleFolders(folders, 0)
		if !slices.Equal(got, folders) {
			t.Errorf("Expected input unchanged, got %v", got)
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		before := slices.Clone(folders)
		SampleFolders(folders, 2)
		if !slices.Equal(folders, before) {
			t.Error("SampleFolders should not reorder its input")
		}
	})
}
