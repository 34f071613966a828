package utils

import (
	"fmt"
	"time"
)

const columnPrefixFmt = "%s.%s"

func PrefixSliceOfStrings(prefix string, input []string, ignore ...string) []string {
	out := make([]string, 0, len(input))

inputloop:
	for _, v := range input {
		for _, ignored := range ignore {
			if v == ignored {
				continue inputloop
			}
		}

		out = append(out, fmt.Sprintf(columnPrefixFmt, prefix, v))
	}
	return out
}

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
