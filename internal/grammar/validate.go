package grammar

import "errors"

// ValidateType2 checks def as a context-free grammar regardless of its
// declared type. An empty result means the definition is valid.
func ValidateType2(def Definition) []string {
	def.Type = ContextFree.String()
	return problemsOf(New(def))
}

// ValidateType3 checks def as a regular grammar regardless of its declared type.
func ValidateType3(def Definition) []string {
	def.Type = Regular.String()
	return problemsOf(New(def))
}

// Validate checks def against the validator of its own declared type.
func Validate(def Definition) []string {
	return problemsOf(New(def))
}

func problemsOf(_ *Grammar, err error) []string {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return append([]string(nil), verr.Problems...)
	}
	return []string{err.Error()}
}
