package content

import "time"

// Record is a validated front-matter record. It holds exactly the declared
// fields that were present, each in its canonical Go type.
type Record map[string]any

// Has reports whether the field was present in the validated input.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r Record) String(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

func (r Record) Bool(name string) (bool, bool) {
	v, ok := r[name].(bool)
	return v, ok
}

func (r Record) Date(name string) (time.Time, bool) {
	v, ok := r[name].(time.Time)
	return v, ok
}

func (r Record) Strings(name string) ([]string, bool) {
	v, ok := r[name].([]string)
	return v, ok
}
