package focus

import (
	"strings"
	"sync"
	"testing"
)

func TestWindowTrailingTokens(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		maxWords   int
		expected   string
	}{
		{"shorter than window", "I has a dog", 25, "I has a dog"},
		{"exactly window size", "one two three", 3, "one two three"},
		{"longer than window", "a b c d e f", 3, "d e f"},
		{"single word window", "hello there teacher", 1, "teacher"},
		{"collapses whitespace", "  she   is \t nice \n", 25, "she is nice"},
		{"empty transcript", "", 10, ""},
		{"whitespace only", "   \t\n  ", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.transcript, tt.maxWords)
			if got != tt.expected {
				t.Errorf("Window(%q, %d) = %q, want %q", tt.transcript, tt.maxWords, got, tt.expected)
			}
		})
	}
}

func TestWindowNeverExceedsMaxWords(t *testing.T) {
	transcript := strings.Repeat("word ", 200)
	for _, n := range []int{1, 15, 20, 25, 199, 200, 500} {
		got := Window(transcript, n)
		count := len(strings.Fields(got))
		if count > n {
			t.Errorf("Window with maxWords=%d returned %d tokens", n, count)
		}
	}
}

func TestWindowIsTokenSuffix(t *testing.T) {
	transcript := "the quick brown fox jumps over the lazy dog"
	all := strings.Fields(transcript)
	for n := 1; n <= len(all)+2; n++ {
		got := strings.Fields(Window(transcript, n))
		want := all
		if len(all) > n {
			want = all[len(all)-n:]
		}
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("maxWords=%d: got %v, want suffix %v", n, got, want)
		}
	}
}

func TestWindowClampsMaxWords(t *testing.T) {
	if got := Window("one two three", 0); got != "three" {
		t.Errorf("maxWords=0 should clamp to 1, got %q", got)
	}
	if got := Window("one two three", -5); got != "three" {
		t.Errorf("maxWords=-5 should clamp to 1, got %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  She   IS\tNice "); got != "she is nice" {
		t.Errorf("NormalizeKey = %q, want %q", got, "she is nice")
	}
	if got := NormalizeKey("   "); got != "" {
		t.Errorf("NormalizeKey of whitespace = %q, want empty", got)
	}
}

func TestGateRejectsRepeatedKey(t *testing.T) {
	gate := NewGate()

	if !gate.TryAccept("she is nice") {
		t.Fatal("first window should be accepted")
	}
	if gate.TryAccept("she is nice") {
		t.Error("identical consecutive window should be rejected")
	}
	if gate.TryAccept("She  IS nice") {
		t.Error("case/whitespace variant of the same window should be rejected")
	}
	if !gate.TryAccept("she is very nice") {
		t.Error("changed window should be accepted")
	}
}

func TestGateRejectsEmptyWindow(t *testing.T) {
	gate := NewGate()
	if gate.TryAccept("") {
		t.Error("empty window should be rejected")
	}
	if gate.TryAccept("  \t ") {
		t.Error("whitespace-only window should be rejected")
	}
}

func TestGateReset(t *testing.T) {
	gate := NewGate()
	gate.TryAccept("hello world")
	gate.Reset()
	if !gate.TryAccept("hello world") {
		t.Error("window should be accepted again after Reset")
	}
}

func TestGateConcurrentSameKey(t *testing.T) {
	gate := NewGate()

	const goroutines = 32
	var wg sync.WaitGroup
	accepted := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.TryAccept("same focus window") {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(accepted)

	count := 0
	for range accepted {
		count++
	}
	if count != 1 {
		t.Errorf("exactly one concurrent caller should pass the gate, got %d", count)
	}
}
