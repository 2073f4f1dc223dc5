package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"pets", []string{"pets"}},
		{"listPets", []string{"list", "Pets"}},
		{"APIClient", []string{"API", "Client"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"user_profile-v2", []string{"user", "profile", "v2"}},
		{"/api/v1/users", []string{"api", "v1", "users"}},
		{"  Pet Store  ", []string{"Pet", "Store"}},
		{"ID", []string{"ID"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Words(tt.input), tt.input)
	}
}

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"showPetById": "show-pet-by-id",
		"UserProfile": "user-profile",
		"get_users":   "get-users",
		"Pet Store":   "pet-store",
		"already-ok":  "already-ok",
	}
	for input, want := range tests {
		assert.Equal(t, want, ToKebabCase(input), input)
	}
}
