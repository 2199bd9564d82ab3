package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageList is an ordered list of image URLs persisted as a JSON array.
type ImageList []string

// Value marshals the list into JSON.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON array column.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("image list: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*l = ImageList{}
		return nil
	}

	var result []string
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("image list: %w", err)
	}
	*l = ImageList(result)
	return nil
}
