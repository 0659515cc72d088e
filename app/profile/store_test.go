package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreLoadsEmbeddedDefault(t *testing.T) {
	store := NewStore("")
	if err := store.Run(); err != nil {
		t.Fatal(err)
	}

	p := store.Get()
	if p == nil {
		t.Fatal("Expected profile to be loaded")
	}
	if p.Name != "Mudipa Kishan" {
		t.Errorf("Expected name 'Mudipa Kishan', got '%s'", p.Name)
	}
	if p.Initials != "MK" {
		t.Errorf("Expected initials 'MK', got '%s'", p.Initials)
	}
	if len(p.Projects) != 5 {
		t.Errorf("Expected 5 projects, got %d", len(p.Projects))
	}
	if len(p.FeaturedProjects()) != 2 {
		t.Errorf("Expected 2 featured projects, got %d", len(p.FeaturedProjects()))
	}
	if len(p.AllSkills()) != 23 {
		t.Errorf("Expected 23 skills, got %d", len(p.AllSkills()))
	}
	if p.AllSkills()[0] != "React.js" {
		t.Errorf("Expected first skill 'React.js', got '%s'", p.AllSkills()[0])
	}
}

func TestStoreGetBeforeRun(t *testing.T) {
	store := NewStore("")
	if store.Get() != nil {
		t.Error("Expected nil profile before Run")
	}
}

func TestStoreLoadsFileAndDerivesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	content := `
name: "Ada Lovelace"
role: "Analyst"
projects:
  - id: "engine"
    title: "Analytical Engine"
    link: "#"
`
	path := filepath.Join(tempDir, "profile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	if err := store.Run(); err != nil {
		t.Fatal(err)
	}

	p := store.Get()
	if p.Initials != "AL" {
		t.Errorf("Expected initials 'AL', got '%s'", p.Initials)
	}
	if p.Headline != "Analyst" {
		t.Errorf("Expected headline to default to role, got '%s'", p.Headline)
	}
	if p.Projects[0].HasLink() {
		t.Error("Expected placeholder link to report no link")
	}
}

func TestStoreKeepsPreviousProfileOnInvalidReload(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "profile.yml")

	if err := os.WriteFile(path, []byte("name: \"First\"\nrole: \"Engineer\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	if err := store.Run(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("name: \"\"\nrole: \"Engineer\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Run(); err == nil {
		t.Fatal("Expected error for invalid profile")
	}

	if store.Get().Name != "First" {
		t.Errorf("Expected previous profile to be kept, got '%s'", store.Get().Name)
	}
}

func TestStoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.yml"))
	err := store.Run()
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestParseValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "missing name",
			content: "role: \"Engineer\"\n",
			errText: "name is required",
		},
		{
			name:    "missing role",
			content: "name: \"Someone\"\n",
			errText: "role is required",
		},
		{
			name: "duplicate project id",
			content: `
name: "Someone"
role: "Engineer"
projects:
  - id: "a"
  - id: "a"
`,
			errText: "duplicate id in projects: a",
		},
		{
			name: "missing experience id",
			content: `
name: "Someone"
role: "Engineer"
experience:
  - company: "Acme"
`,
			errText: "experience entry at index 0 is missing an id",
		},
		{
			name: "invalid social url",
			content: `
name: "Someone"
role: "Engineer"
socials:
  - name: "Site"
    url: "javascript:alert(1)"
`,
			errText: "invalid social URL for Site",
		},
		{
			name: "invalid certificate link",
			content: `
name: "Someone"
role: "Engineer"
certificates:
  - id: "c"
    link: "/relative"
`,
			errText: "invalid link for certificate c",
		},
		{
			name:    "broken yaml",
			content: "name: [unterminated\n",
			errText: "failed to parse YAML",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			if err == nil {
				t.Fatalf("Expected error containing %q", tc.errText)
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected error containing %q, got %q", tc.errText, err.Error())
			}
		})
	}
}

func TestParseAcceptsMailtoSocial(t *testing.T) {
	content := `
name: "Someone"
role: "Engineer"
socials:
  - name: "Email"
    url: "mailto:someone@example.com"
`
	p, err := Parse([]byte(content))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Socials) != 1 {
		t.Errorf("Expected 1 social, got %d", len(p.Socials))
	}
}
