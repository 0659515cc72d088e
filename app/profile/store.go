package profile

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yml
var defaultProfile []byte

// Store holds the current profile. An empty path serves the embedded default.
type Store struct {
	path    string
	current *Profile
	mu      sync.RWMutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Run loads the profile, replacing the cached copy only when it is valid.
func (s *Store) Run() error {
	var (
		profile *Profile
		err     error
	)

	if s.path == "" {
		profile, err = Parse(defaultProfile)
	} else {
		profile, err = s.parseFile()
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = profile
	s.mu.Unlock()

	slog.Debug("Profile loaded", "name", profile.Name, "projects", len(profile.Projects), "source", sourceLabel(s.path))

	return nil
}

// Get returns the loaded profile, or nil before the first successful Run.
func (s *Store) Get() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) parseFile() (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	profile, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", s.path, err)
	}

	return profile, nil
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&profile)

	if err := validate(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func setDefaults(profile *Profile) {
	if profile.Initials == "" {
		profile.Initials = initials(profile.Name)
	}
	if profile.Headline == "" {
		profile.Headline = profile.Role
	}
}

func validate(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("profile is nil")
	}

	requiredFields := map[string]string{
		"name": profile.Name,
		"role": profile.Role,
	}

	for fieldName, fieldValue := range requiredFields {
		if strings.TrimSpace(fieldValue) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	ids := map[string][]string{}
	for _, e := range profile.Experience {
		ids["experience"] = append(ids["experience"], e.ID)
	}
	for _, e := range profile.Education {
		ids["education"] = append(ids["education"], e.ID)
	}
	for _, p := range profile.Projects {
		ids["projects"] = append(ids["projects"], p.ID)
	}
	for _, c := range profile.Certificates {
		ids["certificates"] = append(ids["certificates"], c.ID)
	}

	for list, values := range ids {
		seen := make(map[string]bool, len(values))
		for i, id := range values {
			if id == "" {
				return fmt.Errorf("%s entry at index %d is missing an id", list, i)
			}
			if seen[id] {
				return fmt.Errorf("duplicate id in %s: %s", list, id)
			}
			seen[id] = true
		}
	}

	for i, social := range profile.Socials {
		if social.Name == "" {
			return fmt.Errorf("social at index %d is missing a name", i)
		}
		if !validLink(social.URL) {
			return fmt.Errorf("invalid social URL for %s: %q", social.Name, social.URL)
		}
	}

	for _, project := range profile.Projects {
		if project.HasLink() && !validLink(project.Link) {
			return fmt.Errorf("invalid link for project %s: %q", project.ID, project.Link)
		}
	}

	for _, cert := range profile.Certificates {
		if !validLink(cert.Link) {
			return fmt.Errorf("invalid link for certificate %s: %q", cert.ID, cert.Link)
		}
	}

	return nil
}

func validLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	default:
		return false
	}
}

func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func sourceLabel(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
