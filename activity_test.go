package ghostsync

import "testing"

func TestCommentKeyRoundTrip(t *testing.T) {
	comment := Comment("abc123")
	if comment != "ID: abc123" {
		t.Errorf("Comment() = %q, want %q", comment, "ID: abc123")
	}
	if Key(comment) != "abc123" {
		t.Errorf("Key() = %q, want %q", Key(comment), "abc123")
	}
}

func TestKeyStability(t *testing.T) {
	// The comment key must be byte-identical across repeated computations:
	// it is the sole deduplication key.
	for i := 0; i < 3; i++ {
		if Comment("f4184fc596403b9d638783cf57adfe4c") != "ID: f4184fc596403b9d638783cf57adfe4c" {
			t.Fatal("Comment() is not stable")
		}
	}
}

func TestKeyWithoutPrefix(t *testing.T) {
	// Activities recorded by hand may carry arbitrary comments; Key leaves
	// them untouched.
	if Key("manual note") != "manual note" {
		t.Errorf("Key() = %q, want %q", Key("manual note"), "manual note")
	}
}
