package entropy

import (
	"slices"
	"testing"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestCryptoIntnInRange(t *testing.T) {
	var src Crypto
	for i := 0; i < 1000; i++ {
		if v := src.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("value %d out of range", v)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(NewSeeded(7), len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	if !slices.Equal(sorted, []int{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("shuffle lost elements: %v", items)
	}
}

func TestShuffleCoversEveryPosition(t *testing.T) {
	src := NewSeeded(1)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		items := []int{0, 1, 2}
		Shuffle(src, len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		seen[items[0]] = true
	}
	if len(seen) != 3 {
		t.Fatalf("first position only ever held %v", seen)
	}
}

func TestNewSelectsSource(t *testing.T) {
	if _, ok := New(0).(Crypto); !ok {
		t.Fatal("seed 0 should use crypto randomness")
	}
	if _, ok := New(9).(*Seeded); !ok {
		t.Fatal("non-zero seed should be deterministic")
	}
}
