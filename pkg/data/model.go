package data

// FileLink is a downloadable file discovered on the root page.
type FileLink struct {
	URL  string // absolute, scheme-qualified
	Name string // local file name to write under
}

// Outcome is the result of downloading a single FileLink.
type Outcome struct {
	Link  FileLink
	Path  string // destination path, empty if never resolved
	Bytes int64
	Err   error
}

// OK reports whether the download succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report collects one Outcome per link, in the order the links were given.
type Report struct {
	Outcomes []Outcome
}

// Succeeded returns the outcomes that were written to disk.
func (r *Report) Succeeded() []Outcome {
	return r.filter(true)
}

// Failed returns the outcomes that carry an error.
func (r *Report) Failed() []Outcome {
	return r.filter(false)
}

func (r *Report) filter(ok bool) []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			out = append(out, o)
		}
	}
	return out
}

// DuplicateNames returns every name used by more than one link, in order of
// first repetition.
func DuplicateNames(links []FileLink) []string {
	seen := make(map[string]int, len(links))
	var dups []string
	for _, l := range links {
		seen[l.Name]++
		if seen[l.Name] == 2 {
			dups = append(dups, l.Name)
		}
	}
	return dups
}
