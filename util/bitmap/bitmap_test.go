package bitmap_test

import (
	"testing"

	"github.com/unixv6fs/unixv6fs/util/bitmap"
)

func TestFindNextLiteralScenario(t *testing.T) {
	bm, err := bitmap.New(4, 131)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	next, err := bm.FindNext()
	if err != nil || next != 4 {
		t.Fatalf("FindNext() = %d, %v, want 4, nil", next, err)
	}

	bm.Set(4)
	bm.Set(5)
	bm.Set(6)
	next, err = bm.FindNext()
	if err != nil || next != 7 {
		t.Fatalf("FindNext() after set(4,5,6) = %d, %v, want 7, nil", next, err)
	}

	// The every-third-index step starts from a fresh bitmap: on the one
	// above, 5 and 6 are already set, so the lowest clear index would be 8.
	bm, err = bitmap.New(4, 131)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for x := uint64(4); x <= 130; x += 3 {
		bm.Set(x)
	}
	next, err = bm.FindNext()
	if err != nil || next != 5 {
		t.Fatalf("FindNext() after setting every third index = %d, %v, want 5, nil", next, err)
	}

	for x := uint64(5); x <= 130; x += 5 {
		bm.Clear(x)
	}
	next, err = bm.FindNext()
	if err != nil || next != 5 {
		t.Fatalf("FindNext() after clearing every fifth index = %d, %v, want 5, nil", next, err)
	}
}

func TestSetClearGet(t *testing.T) {
	bm, err := bitmap.New(10, 200)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	for _, x := range []uint64{10, 73, 200} {
		bm.Set(x)
		got, err := bm.Get(x)
		if err != nil || !got {
			t.Errorf("after Set(%d): Get() = %v, %v, want true, nil", x, got, err)
		}
		bm.Clear(x)
		got, err = bm.Get(x)
		if err != nil || got {
			t.Errorf("after Clear(%d): Get() = %v, %v, want false, nil", x, got, err)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	bm, err := bitmap.New(10, 20)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := bm.Get(9); err == nil {
		t.Error("Get(9) below min: want error, got nil")
	}
	if _, err := bm.Get(21); err == nil {
		t.Error("Get(21) above max: want error, got nil")
	}
}

func TestSetClearOutOfRangeIsNoop(t *testing.T) {
	bm, err := bitmap.New(10, 20)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	bm.Set(1000)
	bm.Clear(1000)
}

func TestFindNextExhaustion(t *testing.T) {
	bm, err := bitmap.New(0, 3)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for x := uint64(0); x <= 3; x++ {
		bm.Set(x)
	}
	if _, err := bm.FindNext(); err == nil {
		t.Error("FindNext() on a full bitmap: want error, got nil")
	}
}

func TestFindNextRepeatedCallsStable(t *testing.T) {
	bm, err := bitmap.New(0, 127)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	bm.Set(0)
	first, err := bm.FindNext()
	if err != nil {
		t.Fatalf("FindNext() = %v", err)
	}
	second, err := bm.FindNext()
	if err != nil || second != first {
		t.Errorf("FindNext() repeated = %d, %v, want %d, nil", second, err, first)
	}
}

func TestClearRewindsCursor(t *testing.T) {
	bm, err := bitmap.New(0, 127)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for x := uint64(0); x < 64; x++ {
		bm.Set(x)
	}
	if _, err := bm.FindNext(); err != nil {
		t.Fatalf("FindNext() = %v", err)
	}
	bm.Clear(10)
	next, err := bm.FindNext()
	if err != nil || next != 10 {
		t.Errorf("FindNext() after rewinding clear = %d, %v, want 10, nil", next, err)
	}
}
