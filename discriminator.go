package webhookbot

// Discriminator decides whether a classification rule applies to an update
// payload. Discriminators only look at field presence and values; they never
// build the typed contents.
type Discriminator interface {
	Match(v View) bool
}

// HasFields returns a Discriminator that matches when all paths exist.
func HasFields(paths ...string) Discriminator {
	return hasFields{paths: paths}
}

type hasFields struct {
	paths []string
}

func (d hasFields) Match(v View) bool {
	for _, p := range d.paths {
		if !v.HasField(p) {
			return false
		}
	}
	return true
}

// FieldEquals returns a Discriminator that matches when the path exists
// and equals the given string value.
func FieldEquals(path, value string) Discriminator {
	return fieldEquals{path: path, value: value}
}

type fieldEquals struct {
	path  string
	value string
}

func (d fieldEquals) Match(v View) bool {
	s, ok := v.GetString(d.path)
	return ok && s == d.value
}

// NonEmpty returns a Discriminator that matches when the path holds a
// non-empty string.
func NonEmpty(path string) Discriminator {
	return nonEmpty{path: path}
}

type nonEmpty struct {
	path string
}

func (d nonEmpty) Match(v View) bool {
	s, ok := v.GetString(d.path)
	return ok && s != ""
}
