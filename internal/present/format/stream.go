package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mithrel/sprout/internal/site"
)

// FileRecord is the serialized form of a build result.
type FileRecord struct {
	Path   string `json:"path"`
	PageID string `json:"page_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status"`
	Bytes  int    `json:"bytes"`
	Error  string `json:"error,omitempty"`
}

func NewFileRecord(r site.FileResult) FileRecord {
	rec := FileRecord{Path: r.Path, PageID: r.PageID, Title: r.Title, Status: r.Status.String(), Bytes: r.Bytes}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// ResultWriter receives build results as files complete.
type ResultWriter interface {
	WriteResult(site.FileResult) error
	Close() error
}

// PlainStreamWriter writes results as aligned TSV, flushing per line.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	headers     bool
	wroteHeader bool
}

func NewPlainStreamWriter(w io.Writer, headers bool) *PlainStreamWriter {
	return &PlainStreamWriter{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), headers: headers}
}

func (pw *PlainStreamWriter) WriteResult(r site.FileResult) error {
	if pw.headers && !pw.wroteHeader {
		_, _ = io.WriteString(pw.tw, "status\tpath\tbytes\terror\n")
		pw.wroteHeader = true
	}
	rec := NewFileRecord(r)
	_, _ = fmt.Fprintf(pw.tw, "%s\t%s\t%d\t%s\n", rec.Status, esc(rec.Path), rec.Bytes, esc(rec.Error))
	return pw.tw.Flush()
}

func (pw *PlainStreamWriter) Close() error { return pw.tw.Flush() }

// NDJSONStreamWriter writes one JSON object per result.
type NDJSONStreamWriter struct {
	enc *json.Encoder
}

func NewNDJSONStreamWriter(w io.Writer) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: newEncoder(w, false)}
}

func (nw *NDJSONStreamWriter) WriteResult(r site.FileResult) error {
	return nw.enc.Encode(NewFileRecord(r))
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter) Close() error { return nil }

// JSONStreamWriter incrementally writes results as a JSON array.
type JSONStreamWriter struct {
	w        io.Writer
	indent   bool
	wroteAny bool
}

func NewJSONStreamWriter(w io.Writer, indent bool) *JSONStreamWriter {
	return &JSONStreamWriter{w: w, indent: indent}
}

func (jw *JSONStreamWriter) WriteResult(r site.FileResult) error {
	var (
		b   []byte
		err error
	)
	if jw.indent {
		b, err = json.MarshalIndent(NewFileRecord(r), "  ", "  ")
	} else {
		b, err = json.Marshal(NewFileRecord(r))
	}
	if err != nil {
		return err
	}
	sep := ","
	if !jw.wroteAny {
		sep = "["
	}
	if jw.indent {
		sep += "\n  "
	}
	if _, err := io.WriteString(jw.w, sep); err != nil {
		return err
	}
	if _, err := jw.w.Write(b); err != nil {
		return err
	}
	jw.wroteAny = true
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter) Close() error {
	switch {
	case !jw.wroteAny:
		_, err := io.WriteString(jw.w, "[]\n")
		return err
	case jw.indent:
		_, err := io.WriteString(jw.w, "\n]\n")
		return err
	}
	_, err := io.WriteString(jw.w, "]\n")
	return err
}
