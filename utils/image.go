package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrEmptyImage is returned for blank image payloads.
var ErrEmptyImage = errors.New("no image received")

// DecodeImage accepts a data URL ("data:image/jpeg;base64,...") or bare base64.
func DecodeImage(data string) ([]byte, error) {
	encoded := strings.TrimSpace(data)
	if i := strings.Index(encoded, ","); i >= 0 {
		encoded = encoded[i+1:]
	}
	if encoded == "" {
		return nil, ErrEmptyImage
	}

	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		img, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, err
		}
	}
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	return img, nil
}
