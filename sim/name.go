package sim

import (
	"strconv"
	"strings"
)

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a dot separated hierarchy of elements ("Adder.In[0]"). Each
// element starts with a capital letter, must not be empty, and must not
// contain '_', '-' or quotes. Series elements use square-bracket indices.
func NameMustBeValid(name string) {
	for _, elem := range strings.Split(name, ".") {
		if err := elemProblem(elem); err != "" {
			panic("Name " + name + " is not valid: " + err)
		}
	}
}

// IsValidName reports whether NameMustBeValid would accept name.
func IsValidName(name string) bool {
	for _, elem := range strings.Split(name, ".") {
		if elemProblem(elem) != "" {
			return false
		}
	}

	return true
}

func elemProblem(elem string) string {
	base, rest, hasIndex := strings.Cut(elem, "[")
	if base == "" {
		return "name element must not be empty"
	}

	if strings.ContainsAny(base, "_-\"'") {
		return "name element must not contain _, -, or quotes"
	}

	if base[0] < 'A' || base[0] > 'Z' {
		return "name element must start with a capital letter"
	}

	if !hasIndex {
		if strings.Contains(base, "]") {
			return "name bracket must match"
		}

		return ""
	}

	for _, idx := range strings.Split(rest, "[") {
		if !strings.HasSuffix(idx, "]") {
			return "name bracket must match"
		}

		if _, err := strconv.Atoi(strings.TrimSuffix(idx, "]")); err != nil {
			return "name index must be integer"
		}
	}

	return ""
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
