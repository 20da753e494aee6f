package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

const MaxFileSize int64 = 10 * 1024 * 1024

var (
	AllowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	AllowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

// plain decimal degrees; rules out hex floats, exponents, NaN and Inf
var decimalDegrees = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

var (
	ErrCoordinatesFormat = errors.New(`coordinates must be a JSON array of two values, e.g. ["12.97","77.59"]`)
	ErrLatitudeRange     = errors.New("latitude must be between -90 and 90")
	ErrLongitudeRange    = errors.New("longitude must be between -180 and 180")
	ErrRecipient         = errors.New("recipient must be a 0x-prefixed 20-byte hex address")
)

// Coordinates parses a JSON pair of latitude and longitude. Both strings and numbers
// are accepted as plain decimals; the values are kept exactly as written.
func Coordinates(raw string) (entity.Coordinates, error) {
	var values []json.RawMessage

	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&values); err != nil || dec.More() || len(values) != 2 {
		return entity.Coordinates{}, ErrCoordinatesFormat
	}

	var c entity.Coordinates
	for i, v := range values {
		text, err := degrees(v)
		if err != nil {
			return entity.Coordinates{}, err
		}
		c[i] = text
	}

	if err := inRange(c.Lat(), 90); err != nil {
		return entity.Coordinates{}, ErrLatitudeRange
	}
	if err := inRange(c.Lon(), 180); err != nil {
		return entity.Coordinates{}, ErrLongitudeRange
	}

	return c, nil
}

func degrees(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)

	if len(v) > 0 && v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", ErrCoordinatesFormat
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", ErrCoordinatesFormat
	}

	return n.String(), nil
}

func inRange(text string, limit float64) error {
	if !decimalDegrees.MatchString(text) {
		return fmt.Errorf("%q is not a decimal number", text)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", text)
	}
	if f < -limit || f > limit {
		return fmt.Errorf("%q out of range", text)
	}

	return nil
}

// Recipient returns the checksummed form of a hex account address.
func Recipient(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "0x") || !common.IsHexAddress(raw) {
		return "", ErrRecipient
	}

	return common.HexToAddress(raw).Hex(), nil
}
