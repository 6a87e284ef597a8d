package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// jsonRecord is the wire shape of a Record. Absent optional fields are omitted.
type jsonRecord struct {
	Path     string `json:"path,omitempty"`
	Dir      bool   `json:"dir,omitempty"`
	MD5      string `json:"md5,omitempty"`
	SHA1     string `json:"sha1,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Length   *int64 `json:"length,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
	Accessed string `json:"accessed,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRecord{
		Path:     r.Path,
		Dir:      r.IsDirectory,
		MD5:      r.MD5,
		SHA1:     r.SHA1,
		SHA256:   r.SHA256,
		Length:   r.Length,
		Created:  formatTime(r.Created),
		Modified: formatTime(r.Modified),
		Accessed: formatTime(r.Accessed),
		Error:    r.Error,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var jr jsonRecord
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}

	created, err := parseTime(jr.Created)
	if err != nil {
		return fmt.Errorf("invalid created time of %s: %w", jr.Path, err)
	}
	modified, err := parseTime(jr.Modified)
	if err != nil {
		return fmt.Errorf("invalid modified time of %s: %w", jr.Path, err)
	}
	accessed, err := parseTime(jr.Accessed)
	if err != nil {
		return fmt.Errorf("invalid accessed time of %s: %w", jr.Path, err)
	}

	*r = Record{
		Path:        jr.Path,
		IsDirectory: jr.Dir,
		MD5:         jr.MD5,
		SHA1:        jr.SHA1,
		SHA256:      jr.SHA256,
		Length:      jr.Length,
		Created:     created,
		Modified:    modified,
		Accessed:    accessed,
		Error:       jr.Error,
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Encode writes v as an indented JSON document. Nil slices are written as empty arrays.
func Encode(w io.Writer, v any) error {
	switch list := v.(type) {
	case []Record:
		if list == nil {
			v = []Record{}
		}
	case []Conflict:
		if list == nil {
			v = []Conflict{}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeRecords reads a JSON array of records.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return records, nil
}

// DecodeConflicts reads a JSON array of conflicts.
func DecodeConflicts(r io.Reader) ([]Conflict, error) {
	var conflicts []Conflict
	if err := json.NewDecoder(r).Decode(&conflicts); err != nil {
		return nil, fmt.Errorf("failed to decode conflicts: %w", err)
	}
	return conflicts, nil
}
