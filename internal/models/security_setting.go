package models

import (
	"strconv"
	"strings"
	"time"
)

// Setting value types stored in the "type" column.
const (
	SettingTypeInteger = "integer"
	SettingTypeBoolean = "boolean"
	SettingTypeFloat   = "float"
	SettingTypeString  = "string"
)

// SecuritySetting is a typed key/value configuration row consumed by the
// enforcement engine. Values are stored as strings and coerced on read.
type SecuritySetting struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"uniqueIndex;column:key"`
	Value       string    `json:"value"`
	Type        string    `json:"type" gorm:"default:'string'"`
	Description string    `json:"description,omitempty"`
	Group       string    `json:"group,omitempty" gorm:"column:group_name;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SecuritySetting) TableName() string {
	return "security_settings"
}

// IntValue coerces the stored value to an int, falling back to def when the
// value does not parse. Coercion never errors.
func (s *SecuritySetting) IntValue(def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s.Value))
	if err != nil {
		return def
	}
	return v
}

// BoolValue uses a permissive boolean parse: "1", "true", "yes", "on" are
// true; everything else, ambiguity included, is false.
func (s *SecuritySetting) BoolValue() bool {
	switch strings.ToLower(strings.TrimSpace(s.Value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// FloatValue coerces the stored value to a float64, falling back to def.
func (s *SecuritySetting) FloatValue(def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
	if err != nil {
		return def
	}
	return v
}
