package odata

import (
	"strconv"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/model"
)

const (
	DefaultMaxPageSize = 25
	MaxPageSizeLimit   = 100
)

// ParsePrefer reads the Prefer header. The page size falls back to
// defaultSize when missing or lower than 1 and is capped to maxSize.
func ParsePrefer(header string, defaultSize, maxSize int) model.Prefer {
	prefer := model.Prefer{MaxPageSize: defaultSize}

	for _, item := range strings.Split(header, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch name {
		case "odata.maxpagesize":
			size, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			prefer.Requested = true
			switch {
			case size < 1:
				prefer.MaxPageSize = defaultSize
			case size > maxSize:
				prefer.MaxPageSize = maxSize
			default:
				prefer.MaxPageSize = size
			}
		case "return":
			prefer.Return = value
		}
	}
	return prefer
}
