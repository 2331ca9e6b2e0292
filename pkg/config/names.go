package config

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// NameList accepts either a single name or a list of names.
type NameList []string

func (s *NameList) decode(a interface{}) error {
	switch d := a.(type) {
	case string:
		*s = append(*s, d)

	case []string:
		*s = append(*s, d...)

	case []interface{}:
		for _, de := range d {
			if err := s.decode(de); err != nil {
				return err
			}
		}

	default:
		return errors.Errorf("unexpected type %T for NameList: %+v", d, d)
	}

	return nil
}

func (s *NameList) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var ss []string
	err = unmarshal(&ss)
	if err == nil {
		*s = ss
		return
	}

	var as string
	err = unmarshal(&as)
	if err == nil {
		*s = append(*s, as)
	}

	return err
}

func (s *NameList) UnmarshalJSON(b []byte) error {
	var a interface{}
	var err = json.Unmarshal(b, &a)
	if err != nil {
		return err
	}

	return s.decode(a)
}

// Pattern returns a regular expression matching exactly the listed names,
// or an empty string when the list is empty.
func (s NameList) Pattern() string {
	if len(s) == 0 {
		return ""
	}

	quoted := make([]string, len(s))
	for i, name := range s {
		quoted[i] = regexp.QuoteMeta(name)
	}

	return "^(" + strings.Join(quoted, "|") + ")$"
}
