package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/create/":             "/create/",
		"/follow/?page=2":      "/follow/?page=2",
		"//evil.example.com/":  "/",
		"/\\evil.example.com/": "/",
		"https://example.com/": "/",
		"create/":              "/",
	}
	for next, want := range cases {
		assert.Equal(t, want, safeNext(next), next)
	}
}
