package dto

import (
	"reflect"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidPhone reports whether s is 10 to 15 digits with an optional leading +.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// FieldName names a request field the way clients see it: json tag first,
// then uri tag, then the Go name.
func FieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
