// Package masks holds the stateless input formatters used by the profile
// forms. Each mask re-derives the formatted value from the digits of its
// input, so they are safe to apply on every keystroke.
package masks

import "regexp"

var (
	nonDigits = regexp.MustCompile(`\D`)

	cpfStep1 = regexp.MustCompile(`(\d{3})(\d)`)
	cpfStep3 = regexp.MustCompile(`(\d{3})(\d{1,2})`)

	cnpjStep1 = regexp.MustCompile(`^(\d{2})(\d)`)
	cnpjStep2 = regexp.MustCompile(`^(\d{2})\.(\d{3})(\d)`)
	cnpjStep3 = regexp.MustCompile(`\.(\d{3})(\d)`)
	cnpjStep4 = regexp.MustCompile(`(\d{4})(\d)`)

	phoneArea = regexp.MustCompile(`^(\d{2})(\d)`)
	phoneDash = regexp.MustCompile(`(\d{5})(\d)`)

	cepDash = regexp.MustCompile(`^(\d{5})(\d)`)

	dateSep = regexp.MustCompile(`(\d{2})(\d)`)

	cpfDisplay = regexp.MustCompile(`(\d{3})(\d{3})(\d{3})(\d{2})`)
)

// replaceFirst rewrites only the first match, mirroring an unanchored
// single-shot regex replace.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + string(re.ExpandString(nil, repl, s, loc)) + s[loc[1]:]
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// CPFCNPJ formats a document number, choosing the CPF or CNPJ layout by
// digit count: 123.456.789-01 or 12.345.678/9012-34.
func CPFCNPJ(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	if len(v) <= 11 {
		v = replaceFirst(cpfStep1, v, "${1}.${2}")
		v = replaceFirst(cpfStep1, v, "${1}.${2}")
		v = replaceFirst(cpfStep3, v, "${1}-${2}")
	} else {
		v = replaceFirst(cnpjStep1, v, "${1}.${2}")
		v = replaceFirst(cnpjStep2, v, "${1}.${2}.${3}")
		v = replaceFirst(cnpjStep3, v, ".${1}/${2}")
		v = replaceFirst(cnpjStep4, v, "${1}-${2}")
	}
	return clip(v, 18)
}

// Phone formats (XX) XXXXX-XXXX.
func Phone(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	v = replaceFirst(phoneArea, v, "(${1}) ${2}")
	v = replaceFirst(phoneDash, v, "${1}-${2}")
	return clip(v, 15)
}

// CEP formats the postal code XXXXX-XXX.
func CEP(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	v = replaceFirst(cepDash, v, "${1}-${2}")
	return clip(v, 9)
}

// Date formats DD/MM/YYYY.
func Date(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	v = replaceFirst(dateSep, v, "${1}/${2}")
	v = replaceFirst(dateSep, v, "${1}/${2}")
	return clip(v, 10)
}

// DisplayCPF hides the middle digits of a CPF: 123.***.***-01. Anything that
// is not an 11-digit CPF passes through untouched.
func DisplayCPF(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	if len(v) == 11 {
		return cpfDisplay.ReplaceAllString(v, "${1}.***.***-${4}")
	}
	return v
}
