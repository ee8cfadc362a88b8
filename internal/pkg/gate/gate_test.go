package gate

import "testing"

func TestStaticAuthorize(t *testing.T) {
	t.Run("MatchingToken", func(t *testing.T) {
		g := NewStatic("s3cr3t")

		if !g.Authorize("s3cr3t") {
			t.Fatalf("expected matching token to be authorized")
		}
	})

	t.Run("WrongToken", func(t *testing.T) {
		g := NewStatic("s3cr3t")

		if g.Authorize("nope") {
			t.Fatalf("expected wrong token to be denied")
		}
	})

	t.Run("EmptyToken", func(t *testing.T) {
		g := NewStatic("s3cr3t")

		if g.Authorize("") {
			t.Fatalf("expected empty token to be denied")
		}
	})

	t.Run("UnconfiguredGate", func(t *testing.T) {
		g := NewStatic("")

		if g.Authorize("") || g.Authorize("anything") {
			t.Fatalf("expected unconfigured gate to deny everything")
		}
	})
}
