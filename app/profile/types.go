package profile

type Profile struct {
	Name         string   `yaml:"name" json:"name"`
	Initials     string   `yaml:"initials" json:"initials"`
	Role         string   `yaml:"role" json:"role"`
	Taglines     []string `yaml:"taglines" json:"taglines"`
	Headline     string   `yaml:"headline" json:"headline"`
	Summary      string   `yaml:"summary" json:"summary"`
	Location     string   `yaml:"location" json:"location"`
	Availability string   `yaml:"availability" json:"availability"`
	Bio          []string `yaml:"bio" json:"bio"`
	Focus        []string `yaml:"focus" json:"focus"`

	Contact      Contact         `yaml:"contact" json:"contact"`
	Socials      []Social        `yaml:"socials" json:"socials"`
	Skills       []SkillCategory `yaml:"skills" json:"skills"`
	Experience   []Experience    `yaml:"experience" json:"experience"`
	Education    []Education     `yaml:"education" json:"education"`
	Projects     []Project       `yaml:"projects" json:"projects"`
	Certificates []Certificate   `yaml:"certificates" json:"certificates"`
}

type Contact struct {
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`
	Address  string `yaml:"address" json:"address"`
	Website  string `yaml:"website" json:"website"`
	GitHub   string `yaml:"github" json:"github"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
}

type Social struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type SkillCategory struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

type Experience struct {
	ID          string   `yaml:"id" json:"id"`
	Role        string   `yaml:"role" json:"role"`
	Company     string   `yaml:"company" json:"company"`
	Period      string   `yaml:"period" json:"period"`
	Description []string `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech,omitempty"`
}

type Education struct {
	ID          string `yaml:"id" json:"id"`
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Period      string `yaml:"period" json:"period"`
}

type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Year        string   `yaml:"year" json:"year"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech"`
	Link        string   `yaml:"link" json:"link,omitempty"`
	Featured    bool     `yaml:"featured" json:"featured"`
}

// HasLink reports whether the project points somewhere real. "#" is a placeholder.
func (p Project) HasLink() bool {
	return p.Link != "" && p.Link != "#"
}

type Certificate struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Issuer string `yaml:"issuer" json:"issuer"`
	Link   string `yaml:"link" json:"link"`
	Date   string `yaml:"date" json:"date,omitempty"`
}

// AllSkills flattens every skill category in order.
func (p *Profile) AllSkills() []string {
	var skills []string
	for _, category := range p.Skills {
		skills = append(skills, category.Skills...)
	}
	return skills
}

// FeaturedProjects returns projects marked as featured, keeping their order.
func (p *Profile) FeaturedProjects() []Project {
	var featured []Project
	for _, project := range p.Projects {
		if project.Featured {
			featured = append(featured, project)
		}
	}
	return featured
}
