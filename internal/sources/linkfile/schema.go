package linkfile

// Entry is one declared link in the links file.
type Entry struct {
	Code      string   `yaml:"code"`
	URL       string   `yaml:"url"`
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags"`
	ExpiresAt string   `yaml:"expires_at"`
}

// File is the root structure of the links file: a flat list of entries.
type File []Entry
