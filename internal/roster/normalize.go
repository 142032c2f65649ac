package roster

import "strings"

// NormalizeEmail trims the address and cuts it at the institutional domain
// marker, so "jdoe@usafa.edu" becomes "jdoe". An empty marker only trims.
func NormalizeEmail(raw, marker string) string {
	email := strings.TrimSpace(raw)
	if marker == "" {
		return email
	}
	if i := strings.Index(email, marker); i >= 0 {
		email = email[:i]
	}
	return strings.TrimSpace(email)
}

// NormalizeName reduces a "Last, First Middle Jr" name to "Last, First".
//
// The text up to the first comma is the family name. After the comma,
// leading spaces are kept and the following run of non-space characters is
// the given name; everything after it is dropped. Names without a comma are
// only trimmed. The result is a fixed point: NormalizeName(NormalizeName(s))
// == NormalizeName(s).
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)

	comma := strings.IndexByte(name, ',')
	if comma < 0 {
		return name
	}

	i := comma + 1
	for i < len(name) && name[i] == ' ' {
		i++
	}
	for i < len(name) && name[i] != ' ' {
		i++
	}
	return strings.TrimSpace(name[:i])
}
