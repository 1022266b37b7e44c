package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"mathquest/internal/domain"
)

const itemSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer", "minimum": 1}
    }
  }
}`

const challengeSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "answers": {"type": ["array", "null"], "items": {"type": "string"}}
    }
  }
}`

const progressRecordSchema = `{
  "type": "object",
  "properties": {
    "points": {"type": "integer", "minimum": 0},
    "badges": {"type": ["array", "null"], "items": {"type": "integer"}},
    "completedProblems": {"type": ["array", "null"], "items": {"type": "integer"}},
    "completedChallenges": {"type": ["array", "null"], "items": {"type": "integer"}},
    "lastUpdated": {"type": "string"}
  }
}`

var progressSchema = `{"type": "object", "additionalProperties": ` + progressRecordSchema + `}`

// progressKey is the storage key for the user progress map.
const progressKey = "userProgress"

var blobSchemas = map[string]*gojsonschema.Schema{
	domain.KindProperties.StorageKey(): mustSchema(itemSchema),
	domain.KindPractice.StorageKey():   mustSchema(itemSchema),
	domain.KindChallenge.StorageKey():  mustSchema(challengeSchema),
	progressKey:                        mustSchema(progressSchema),
}

var recordSchema = mustSchema(progressRecordSchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// decodeBlob validates raw against the schema registered for key and unmarshals it into dst.
// Any failure is reported as domain.ErrCorruptData.
func decodeBlob(key string, raw []byte, dst any) error {
	return decodeWith(blobSchemas[key], key, raw, dst)
}

func decodeWith(schema *gojsonschema.Schema, key string, raw []byte, dst any) error {
	if schema != nil {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, key, err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return fmt.Errorf("%w: %s: %s", domain.ErrCorruptData, key, strings.Join(msgs, "; "))
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, key, err)
	}
	return nil
}

// salvageProgress keeps every user record of a corrupt progress map that still decodes on
// its own. It reports false when the map itself is unreadable.
func salvageProgress(raw []byte, logger *slog.Logger) (map[string]domain.UserProgress, bool) {
	var records map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil || records == nil {
		return nil, false
	}
	kept := make(map[string]domain.UserProgress, len(records))
	for userID, record := range records {
		var p domain.UserProgress
		if err := decodeWith(recordSchema, progressKey+"."+userID, record, &p); err != nil {
			logger.Warn("dropping corrupt progress record", "user", userID, "error", err)
			continue
		}
		kept[userID] = p
	}
	return kept, true
}
