package password

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMatchesKnownVectors(t *testing.T) {
	tests := []struct {
		password, salt string
		iterations     int
		want           string
	}{
		{"passwd", "salt", 1, "pbkdf2_sha256$1$salt$VawEblbjCJ/sFpHCJUS2BflBhSFt3gRl5oudV8INrLw="},
		{"пароль_Ü1a", "00ff", 1000, "pbkdf2_sha256$1000$00ff$bYdtba6bi7OZZwLV+bdlJvBX6ZDSSyYLPrRM4YiHirc="},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Hash(tt.password, tt.salt, tt.iterations))
	}
}

func TestVerifyAcceptsDefaultIterationDigest(t *testing.T) {
	digest := "pbkdf2_sha256$260000$a3f1c2d4e5b6a7980112233445566778899aabbccddeeff00112233445566778$uedU92eKlib/CNWhqkoIZDb8UlRsXtuUMOrxwQLwilY="

	ok, err := Verify("GoodPassw0rd_", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("GoodPassw0rd-", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashVerifyRoundTrip(t *testing.T) {
	for _, pw := range []string{"GoodPassw0rd_", "x", "", "with spaces and ünïcode", strings.Repeat("A1_b", 64)} {
		salt, err := NewSalt(nil)
		require.NoError(t, err)
		digest := Hash(pw, salt, 1000)

		ok, err := Verify(pw, digest)
		require.NoError(t, err)
		assert.True(t, ok, pw)
	}
}

func TestVerifyRejectsAlteredDigest(t *testing.T) {
	digest := Hash("GoodPassw0rd_", "somesalt", 1000)

	for i := len(Algorithm) + 1; i < len(digest); i++ {
		if digest[i] == '$' {
			continue
		}
		altered := []byte(digest)
		if altered[i] == 'A' {
			altered[i] = 'B'
		} else {
			altered[i] = 'A'
		}

		ok, err := Verify("GoodPassw0rd_", string(altered))
		if err != nil {
			assert.True(t, errors.Is(err, ErrIntegrity), "position %d", i)
			continue
		}
		assert.False(t, ok, "position %d", i)
	}
}

func TestVerifyRejectsAlteredPassword(t *testing.T) {
	digest := Hash("GoodPassw0rd_", "somesalt", 1000)
	ok, err := Verify("GoodPassw0rd", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformedFailsClosed(t *testing.T) {
	for _, digest := range []string{
		"",
		"plaintext",
		"pbkdf2_sha256$1000$salt",
		"pbkdf2_sha256$1000$salt$hash$extra",
	} {
		ok, err := Verify("anything", digest)
		assert.NoError(t, err, digest)
		assert.False(t, ok, digest)
	}
}

func TestVerifyIntegrityViolations(t *testing.T) {
	for _, digest := range []string{
		"bcrypt$10$salt$hash",
		"pbkdf2_sha1$1000$salt$hash",
		"pbkdf2_sha256$lots$salt$hash",
		"pbkdf2_sha256$0$salt$hash",
		"pbkdf2_sha256$-5$salt$hash",
	} {
		ok, err := Verify("anything", digest)
		assert.False(t, ok, digest)
		assert.True(t, errors.Is(err, ErrIntegrity), digest)
	}
}

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt(bytes.NewReader(bytes.Repeat([]byte{0xab}, 32)))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 32), salt)

	_, err = NewSalt(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)

	a, err := NewSalt(nil)
	require.NoError(t, err)
	b, err := NewSalt(nil)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"short1A_", false},
		{"GoodPassw0rd_", true},
		{"NoSpecial123", false},
		{"has space1A_", false},
		{"tab\tSep1_xx", false},
		{"ALLUPPER123_", false},
		{"alllower123_", false},
		{"NoDigitsHere_", false},
		{"Exactl10@", false},
		{"Exactl10@z", true},
		{"Ünïcödé1a_X", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStrong(tt.password), tt.password)
	}
}
