package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	// md5("myemailaddress@example.com") из документации gravatar
	want := "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=250&d=identicon"

	assert.Equal(t, want, GravatarURL("MyEmailAddress@example.com ", 250))
	assert.Equal(t, GravatarURL("a@b.com", 100), GravatarURL("A@B.COM", 100))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "janedoemailcom", SanitizeFileName("jane.doe@mail.com"))
	assert.Equal(t, "", SanitizeFileName("../@@"))
}
