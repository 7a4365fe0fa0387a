package odata

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Date is an Edm.Date literal (YYYY-MM-DD)
type Date string

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	t, _ := time.Parse(time.DateOnly, string(d))
	return t
}

var (
	integerPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalPattern   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	datePattern      = regexp.MustCompile(`^-?[0-9]{4,}-[0-9]{2}-[0-9]{2}$`)
	dateTimePattern  = regexp.MustCompile(`^-?[0-9]{4,}-[0-9]{2}-[0-9]{2}T`)
	timeOfDayPattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}(:[0-9]{2}(\.[0-9]+)?)?$`)
	guidPattern      = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	// duration'..', binary'..', geography'..', geometry'..' and enum values (Ns.Type'member')
	qualifiedPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*'.*'$`)
)

// ParsePrimitiveLiteral converts an URL literal into a Go value: nil, bool,
// int64, float64, string, time.Time or Date. Guid literals are returned
// in canonical string form.
func ParsePrimitiveLiteral(text string) (any, error) {
	switch text {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}

	switch {
	case len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'':
		return parseString(text)

	case integerPattern.MatchString(text):
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v, nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid number", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
		}
		return v, nil

	case decimalPattern.MatchString(text):
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid number", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
		}
		return v, nil

	case guidPattern.MatchString(text):
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid guid", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
		}
		return id.String(), nil

	case dateTimePattern.MatchString(text):
		v, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid dateTimeOffset literal", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
		}
		return v, nil

	case datePattern.MatchString(text):
		if _, err := time.Parse(time.DateOnly, text); err != nil {
			return nil, goerr.Wrap(err, "invalid date literal", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
		}
		return Date(text), nil

	case timeOfDayPattern.MatchString(text), qualifiedPattern.MatchString(text):
		return nil, goerr.New("literal type not supported", goerr.V("literal", text), goerr.T(model.ErrTagNotImplemented))
	}

	return nil, goerr.New("invalid literal "+text, goerr.T(model.ErrTagBadRequest))
}

func parseString(text string) (string, error) {
	inner := text[1 : len(text)-1]
	if decoded, err := url.PathUnescape(inner); err == nil {
		inner = decoded
	}

	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\'' {
			if i+1 >= len(inner) || inner[i+1] != '\'' {
				return "", goerr.New("unescaped quote in string literal", goerr.V("literal", text), goerr.T(model.ErrTagBadRequest))
			}
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String(), nil
}

// FormatLiteral renders a value as an URL literal
func FormatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case Date:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		switch {
		case math.IsInf(v, 1):
			return "INF"
		case math.IsInf(v, -1):
			return "-INF"
		case math.IsNaN(v):
			return "NaN"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return "'" + strings.ReplaceAll(fmt.Sprint(value), "'", "''") + "'"
}
