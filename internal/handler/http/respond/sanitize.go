package respond

import "regexp"

// secretPatterns are applied in order; sk-ant- must be masked before the
// generic sk- form.
var secretPatterns = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), "AIza****"},
	// redis://:secret@host:6379
	{regexp.MustCompile(`://([^:/@]*):([^@/]+)@`), "://$1:****@"},
}

// SanitizeError returns err's message with provider keys and URL passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.mask)
	}
	return msg
}
