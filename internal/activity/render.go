package activity

import (
	"encoding/json"
	"fmt"
	"io"
)

// RenderPretty writes each activity as a timestamped block.
func RenderPretty(w io.Writer, activities []Activity) error {
	for _, a := range activities {
		_, err := fmt.Fprintf(w, "%s\n%s: %s\n\n",
			a.Timestamp.Format("2006-01-02 15:04:05"), a.Source, a.Message)
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes the full ordered list as a JSON array. Timestamps
// serialize as RFC 3339 strings.
func RenderJSON(w io.Writer, activities []Activity) error {
	data, err := json.MarshalIndent(activities, "", "\t")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
