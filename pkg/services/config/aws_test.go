package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateSharedFiles points the SDK at fresh shared files and clears ambient credentials.
func isolateSharedFiles(t *testing.T, configContent, credentialsContent string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", writeFile(t, dir, "config", configContent))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", writeFile(t, dir, "credentials", credentialsContent))
	for _, key := range []string{
		"AWS_PROFILE", "AWS_DEFAULT_PROFILE", "AWS_REGION", "AWS_DEFAULT_REGION",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
		"AWS_WEB_IDENTITY_TOKEN_FILE", "AWS_ROLE_ARN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ProfileNotFound(t *testing.T) {
	// Given
	isolateSharedFiles(t, "[profile other]\nregion = eu-west-1\n", "")

	// When
	cfg, err := LoadConfig(context.Background(), "missing")

	// Then
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Contains(t, err.Error(), "'missing'")
}

func TestLoadConfig_StaticCredentials(t *testing.T) {
	// Given
	isolateSharedFiles(t,
		"[profile lab]\nregion = me-south-1\n",
		"[lab]\naws_access_key_id = AKIDEXAMPLE\naws_secret_access_key = secret\n")

	// When
	cfg, err := LoadConfig(context.Background(), "lab")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "me-south-1", cfg.Region)
	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}

func TestLoadConfig_FallbackRegion(t *testing.T) {
	isolateSharedFiles(t, "", "[lab]\naws_access_key_id = AKIDEXAMPLE\naws_secret_access_key = secret\n")

	cfg, err := LoadConfig(context.Background(), "lab")

	require.NoError(t, err)
	assert.Equal(t, FallbackRegion, cfg.Region)
}

func TestLoadConfig_UnusableCredentials(t *testing.T) {
	// A profile without keys or a credential source resolves no credentials.
	isolateSharedFiles(t, "[profile lab]\nregion = me-south-1\n", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	_, err := LoadConfig(context.Background(), "lab")

	assert.ErrorIs(t, err, ErrNoCredentials)
}
