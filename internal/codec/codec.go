// Package codec converts the task collection to and from the persisted blob.
//
// The blob is a UTF-8 JSON array of records with exactly the fields id, title
// and completed. Decoding is schema-checked record by record: a blob that is
// not a JSON array is rejected as a whole, while individual records that do
// not satisfy the schema are dropped without affecting the rest.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"todoapp/internal/task"
)

// ErrNoData is returned by Decode when the blob is absent, empty or not a JSON
// array. Callers choose the fallback.
var ErrNoData = errors.New("codec: no task data")

// Decoded is the result of a successful Decode.
type Decoded struct {
	Tasks []task.Task
	// Dropped counts records skipped because they failed the schema check.
	Dropped int
}

// record mirrors the wire layout. Encode always emits all three fields.
type record struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Decode parses a blob. Rules per record:
//   - id: required JSON integer > 0, else the record is dropped
//   - title: required JSON string, else the record is dropped
//   - completed: optional; missing or non-boolean becomes false
//   - a repeated id keeps the first occurrence
//
// Unknown fields are ignored. A valid empty array yields an empty collection.
func Decode(data []byte) (Decoded, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Decoded{}, ErrNoData
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	out := Decoded{Tasks: make([]task.Task, 0, len(raws))}
	seen := make(map[int64]struct{}, len(raws))
	for _, raw := range raws {
		t, ok := decodeRecord(raw)
		if !ok {
			out.Dropped++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			out.Dropped++
			continue
		}
		seen[t.ID] = struct{}{}
		out.Tasks = append(out.Tasks, t)
	}
	return out, nil
}

func decodeRecord(raw json.RawMessage) (task.Task, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return task.Task{}, false
	}

	id, ok := decodeID(fields["id"])
	if !ok {
		return task.Task{}, false
	}
	title, ok := decodeTitle(fields["title"])
	if !ok {
		return task.Task{}, false
	}

	var completed bool
	if v, present := fields["completed"]; present {
		if err := json.Unmarshal(v, &completed); err != nil {
			completed = false
		}
	}
	return task.Task{ID: id, Title: title, Completed: completed}, true
}

func decodeID(raw json.RawMessage) (int64, bool) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || (v[0] != '-' && (v[0] < '0' || v[0] > '9')) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeTitle(raw json.RawMessage) (string, bool) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || v[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// Encode serializes tasks in the given order.
func Encode(tasks []task.Task) ([]byte, error) {
	recs := make([]record, len(tasks))
	for i, t := range tasks {
		recs[i] = record{ID: t.ID, Title: t.Title, Completed: t.Completed}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}
