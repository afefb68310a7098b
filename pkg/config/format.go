package config

// Label renders a rule's identity in format f. Rules without a name always
// show their ID, and unknown formats behave like RuleFormatName.
func (f RuleFormat) Label(id, name string) string {
	switch {
	case name == "", f == RuleFormatID:
		return id
	case f == RuleFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}
