package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// LoadConfig fills the fields of the struct pointed to by c from the environment.
// Field Foo of type Bar is read from PREFIX_FOO (or the `env` tag) - strings verbatim,
// everything else as json. Fields without env var keep their value; zero valued fields
// without env var are an error unless tagged `env:",optional"`.
func LoadConfig(prefix string, c any) error {
	rt, rc := reflect.TypeOf(c).Elem(), reflect.ValueOf(c).Elem()
	for i := 0; i < rt.NumField(); i++ {
		rft := rt.Field(i)
		name, opts, _ := strings.Cut(rft.Tag.Get("env"), ",")
		if name == "" {
			name = prefix + strings.ToUpper(camelBoundary.ReplaceAllString(rft.Name, "${1}_${2}"))
		}
		s, ok := os.LookupEnv(name)
		if !ok && (!rc.Field(i).IsZero() || opts == "optional") {
			continue
		} else if !ok {
			return fmt.Errorf("failed to lookup field %q in env (%s)", rft.Name, name)
		}
		if rft.Type.Kind() == reflect.String {
			rc.Field(i).SetString(s)
		} else if err := json.Unmarshal([]byte(s), rc.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to unmarshal %q(%s) from %s=%q", rft.Name, rft.Type, name, s)
		}
	}
	return nil
}
