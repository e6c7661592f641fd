package types

// Section is a named block of resume text.
type Section struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ResumeSections holds sections in the order their headings first appeared.
type ResumeSections []Section

// Get returns the content of a section.
func (s ResumeSections) Get(name string) (string, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec.Content, true
		}
	}
	return "", false
}

// Set stores content for a section, keeping the position of an existing key.
func (s *ResumeSections) Set(name, content string) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Content = content
			return
		}
	}
	*s = append(*s, Section{Name: name, Content: content})
}

// Names returns section names in order.
func (s ResumeSections) Names() []string {
	names := make([]string, 0, len(s))
	for _, sec := range s {
		names = append(names, sec.Name)
	}
	return names
}

// ContactDetails is the identity block found in a resume. Empty fields were not found.
type ContactDetails struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Portfolio string `json:"portfolio"`
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
}

// ContactLine returns the non-empty contact fields in display order:
// phone, email, portfolio, github, linkedin.
func (c ContactDetails) ContactLine() []string {
	var out []string
	for _, v := range []string{c.Phone, c.Email, c.Portfolio, c.GitHub, c.LinkedIn} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
