package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		name  string
	}{
		{url: "https://github.com/acme/shop.git", owner: "acme", name: "shop"},
		{url: "https://github.com/acme/shop", owner: "acme", name: "shop"},
		{url: "git@github.com:acme/shop.git", owner: "acme", name: "shop"},
		{url: "ssh://git@github.com/acme/shop.git", owner: "acme", name: "shop"},
		{url: "https://token@github.com/acme/shop.api.git\n", owner: "acme", name: "shop.api"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			repo, err := ParseRepository(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, repo.Owner)
			assert.Equal(t, tt.name, repo.Name)
			assert.Equal(t, tt.owner+"/"+tt.name, repo.String())
		})
	}
}

func TestParseRepositoryRejectsOtherHosts(t *testing.T) {
	for _, url := range []string{"https://gitlab.com/acme/shop.git", "/srv/git/shop.git", ""} {
		_, err := ParseRepository(url)
		assert.ErrorIs(t, err, ErrUnresolvableRepository, url)
	}
}
