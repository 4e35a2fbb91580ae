package di

import "testing"

type counter struct{ n int }

func TestRegisterToken_Singleton(t *testing.T) {
	c := NewContainer()
	c.Register("base", 41)

	builds := 0
	tok := NewToken[*counter]("test:counter")
	RegisterToken(c, tok, func(sr ServiceRegistry) *counter {
		builds++
		return &counter{n: sr.Get("base").(int) + 1}
	})

	first := GetToken(c, tok)
	second := GetToken(c, tok)

	if first != second {
		t.Error("expected the same instance on every resolve")
	}
	if builds != 1 {
		t.Errorf("factory ran %d times, want 1", builds)
	}
	if first.n != 42 {
		t.Errorf("n = %d, want 42", first.n)
	}
}

func TestGet_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing service")
		}
	}()
	NewContainer().Get("nope")
}
