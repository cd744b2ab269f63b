package menu

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"unicode/utf16"
)

// Fingerprint returns a stable 32-bit identity for an option selection. Group and option
// order in the input does not matter. It is an identity key, not a cryptographic hash:
// distinct selections may collide.
func Fingerprint(groups []OptionGroup) int32 {
	return hashString(Canonical(groups))
}

// Canonical renders the sorted option structure as the JSON string that Fingerprint hashes.
func Canonical(groups []OptionGroup) string {
	type keyedGroup struct {
		group OptionGroup
		key   string
	}

	keyed := make([]keyedGroup, 0, len(groups))
	for _, group := range groups {
		options := append([]Option(nil), group.Options...)
		slices.SortStableFunc(options, func(a, b Option) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.Price, b.Price)
		})
		if options == nil {
			options = []Option{}
		}
		sorted := OptionGroup{GroupName: group.GroupName, Options: options}
		keyed = append(keyed, keyedGroup{group: sorted, key: encode(sorted.Options)})
	}

	slices.SortStableFunc(keyed, func(a, b keyedGroup) int {
		if c := strings.Compare(a.group.GroupName, b.group.GroupName); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	sorted := make([]OptionGroup, len(keyed))
	for i, entry := range keyed {
		sorted[i] = entry.group
	}
	return encode(sorted)
}

func encode(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		// only plain strings and ints reach here
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// hashString is the classic h*31+c rolling hash over UTF-16 code units, wrapping at int32.
func hashString(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}
