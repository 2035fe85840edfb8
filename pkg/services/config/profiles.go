package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

// Registry lists the profiles defined in the AWS shared config and credentials files.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
	HasProfile(ctx context.Context, name string) bool
}

type cfgRegistry struct {
	config      *ini.File
	credentials *ini.File
}

// DefaultSharedFiles honours AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE.
func DefaultSharedFiles() (configPath, credentialsPath string) {
	home, _ := os.UserHomeDir()
	configPath = os.Getenv("AWS_CONFIG_FILE")
	if configPath == "" {
		configPath = filepath.Join(home, ".aws", "config")
	}
	credentialsPath = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(home, ".aws", "credentials")
	}
	return configPath, credentialsPath
}

// NewRegistry loads both files. Missing files are treated as empty.
func NewRegistry(configPath, credentialsPath string) (Registry, error) {
	cfg, err := ini.LooseLoad(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	creds, err := ini.LooseLoad(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", credentialsPath, err)
	}
	return &cfgRegistry{config: cfg, credentials: creds}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.ConfigProfile, error) {
	seen := make(map[string]bool)
	var profiles []domain.ConfigProfile

	for _, section := range cr.config.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name, ok := configProfileName(section.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		profiles = append(profiles, domain.ConfigProfile{Name: name, Source: domain.ProfileSourceConfig})
	}

	for _, section := range cr.credentials.Sections() {
		name := section.Name()
		if len(section.Keys()) == 0 || name == ini.DefaultSection || seen[name] {
			continue
		}
		seen[name] = true
		profiles = append(profiles, domain.ConfigProfile{Name: name, Source: domain.ProfileSourceCredentials})
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

func (cr *cfgRegistry) HasProfile(ctx context.Context, name string) bool {
	profiles, _ := cr.GetProfiles(ctx)
	for _, p := range profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// configProfileName maps "[default]" and "[profile name]" sections; other sections
// (sso-session, services) are not profiles.
func configProfileName(section string) (string, bool) {
	switch {
	case section == ini.DefaultSection:
		return "", false
	case section == "default":
		return section, true
	case strings.HasPrefix(section, "profile "):
		return strings.TrimSpace(strings.TrimPrefix(section, "profile ")), true
	default:
		return "", false
	}
}
