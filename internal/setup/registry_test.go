package setup

import (
	"net/url"
	"testing"

	"github.com/pkg/errors"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry[string]()

	registry.Register("dummy", func(u *url.URL) (string, error) {
		return u.Query().Get("value"), nil
	})

	value, err := registry.From("dummy://?value=foo")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "foo", value; e != g {
		t.Errorf("value: expected '%s', got '%s'", e, g)
	}

	if _, err := registry.From("unknown://"); !errors.Is(err, ErrSchemeNotRegistered) {
		t.Errorf("expected ErrSchemeNotRegistered, got %+v", err)
	}
}
