package common

import (
	"os"
	"path/filepath"
	"testing"
)

const testCredentials = `[default]
aws_access_key_id = AKIADEFAULT
aws_secret_access_key = secret

[staging]
aws_access_key_id = AKIASTAGING
aws_secret_access_key = secret
`

const testConfig = `[default]
region = eu-west-1

[profile staging]
region = us-west-2

[profile sso-dev]
sso_session = corp
sso_account_id = 111122223333
sso_role_name = ReadOnly

[sso-session corp]
sso_start_url = https://example.awsapps.com/start
sso_region = us-east-1
`

// writeSharedFiles writes credentials and config files to a temp dir and
// points the SDK environment variables at them.
func writeSharedFiles(t *testing.T, credentials, config string) {
	t.Helper()
	dir := t.TempDir()
	credPath := filepath.Join(dir, "credentials")
	cfgPath := filepath.Join(dir, "config")
	if credentials != "" {
		if err := os.WriteFile(credPath, []byte(credentials), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if config != "" {
		if err := os.WriteFile(cfgPath, []byte(config), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credPath)
	t.Setenv("AWS_CONFIG_FILE", cfgPath)
}

func TestDiscoverProfiles(t *testing.T) {
	writeSharedFiles(t, testCredentials, testConfig)

	got, err := DiscoverProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"default", "staging", "sso-dev"}
	if !equal(got, want) {
		t.Errorf("profiles = %v; want %v", got, want)
	}
}

func TestDiscoverProfiles_MissingFiles(t *testing.T) {
	writeSharedFiles(t, "", "")

	got, err := DiscoverProfiles()
	if err != nil {
		t.Fatalf("missing files must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("profiles = %v; want none", got)
	}
}

func TestUnknownProfiles(t *testing.T) {
	sources := []CredentialSource{
		{Profile: "staging"},
		{Profile: "ghost"},
		{Environment: true},
	}
	got := UnknownProfiles(sources, []string{"default", "staging"})
	if !equal(got, []string{"ghost"}) {
		t.Errorf("unknown = %v; want [ghost]", got)
	}
}
