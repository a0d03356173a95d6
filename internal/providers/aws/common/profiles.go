package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DiscoverProfiles returns every profile name defined in the shared
// credentials and config files, credentials file first, without duplicates.
// AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE override the default
// locations under ~/.aws. Missing files are not an error.
func DiscoverProfiles() ([]string, error) {
	credPath, cfgPath, err := sharedFilePaths()
	if err != nil {
		return nil, err
	}

	credProfiles, err := profilesFromFile(credPath, false)
	if err != nil {
		return nil, err
	}
	cfgProfiles, err := profilesFromFile(cfgPath, true)
	if err != nil {
		return nil, err
	}

	return dedupe(append(credProfiles, cfgProfiles...)), nil
}

// UnknownProfiles returns the named sources that are not in known. The
// environment source is never unknown.
func UnknownProfiles(sources []CredentialSource, known []string) []string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	var out []string
	for _, s := range sources {
		if s.Environment || set[s.Name()] {
			continue
		}
		out = append(out, s.Name())
	}
	return out
}

func sharedFilePaths() (credPath, cfgPath string, err error) {
	credPath = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	cfgPath = os.Getenv("AWS_CONFIG_FILE")
	if credPath != "" && cfgPath != "" {
		return credPath, cfgPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("resolve home directory: %w", err)
	}
	if credPath == "" {
		credPath = filepath.Join(home, ".aws", "credentials")
	}
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".aws", "config")
	}
	return credPath, cfgPath, nil
}

// profilesFromFile parses path as INI and returns one name per profile
// section. In the config file non-default profiles are written as
// "[profile name]"; other prefixed sections such as "[sso-session x]" are
// not profiles and are ignored.
func profilesFromFile(path string, configFile bool) ([]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Loose: true, AllowNestedValues: true}, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var names []string
	for _, section := range f.Sections() {
		name := strings.TrimSpace(section.Name())
		if name == ini.DefaultSection {
			continue
		}
		if configFile && name != "default" {
			rest, ok := strings.CutPrefix(name, "profile ")
			if !ok {
				continue
			}
			name = strings.TrimSpace(rest)
		}
		names = append(names, name)
	}
	return names, nil
}
