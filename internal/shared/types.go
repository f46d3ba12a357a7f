package shared

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(bytes, s)
}

func NewID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

// Level is a CEFR proficiency band. Lesson prompts and recall ranking
// both key off it.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

var levelOrder = map[Level]int{
	LevelA1: 1,
	LevelA2: 2,
	LevelB1: 3,
	LevelB2: 4,
	LevelC1: 5,
	LevelC2: 6,
}

func (l Level) Valid() bool {
	_, ok := levelOrder[l]
	return ok
}

// Before reports whether l is a lower band than other. Unknown levels
// sort first.
func (l Level) Before(other Level) bool {
	return levelOrder[l] < levelOrder[other]
}
