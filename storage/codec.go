package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"maki/task"
)

// Separator sits between the fields of a record. Descriptions are written
// as-is, so a description containing the separator will not load back.
const Separator = " | "

// maxLineSize caps a record. Longer lines are skipped as malformed.
const maxLineSize = 1024 * 1024

// maxDiagnosticText caps how much of an over-long line a diagnostic keeps.
const maxDiagnosticText = 80

// EncodeRecord returns the save file line for t, without the newline.
func EncodeRecord(t *task.Task) string {
	return strings.Join(t.RecordFields(), Separator)
}

// DecodeRecord parses one save file line. Timestamps are converted to loc
// when it is non-nil.
func DecodeRecord(line string, loc *time.Location) (*task.Task, error) {
	fields := strings.Split(line, Separator)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: got %d, want at least 3", ErrFieldCount, len(fields))
	}

	kind, err := task.ParseKind(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, err)
	}

	want := 3
	if kind != task.KindTodo {
		want = 4
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: %s record has %d, want %d", ErrFieldCount, kind, len(fields), want)
	}

	done, err := parseDone(fields[1])
	if err != nil {
		return nil, err
	}

	var t *task.Task
	switch kind {
	case task.KindTodo:
		t, err = task.NewTodo(fields[2])
	case task.KindDeadline, task.KindEvent:
		t, err = task.New(kind, fields[2], fields[3], loc)
	}
	if err != nil {
		return nil, err
	}

	t.In(loc)
	if done {
		t.MarkAsDone()
	}
	return t, nil
}

func parseDone(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: got %q", ErrDoneFlag, s)
	}
}

// Decoder reads tasks from a save file one line at a time. Lines that fail
// to parse are skipped and kept as diagnostics; Next only stops on a
// successfully parsed task or the end of input.
type Decoder struct {
	r   *bufio.Reader
	loc *time.Location

	line  int
	task  *task.Task
	diags []*MalformedRecordError
	err   error
}

// NewDecoder returns a decoder reading from r. Timestamps are converted to loc.
func NewDecoder(r io.Reader, loc *time.Location) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024), loc: loc}
}

// Next advances to the next valid task. It returns false at the end of
// input or on a read error, which Err reports.
func (d *Decoder) Next() bool {
	d.task = nil
	for {
		text, tooLong, err := d.readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = err
			}
			return false
		}
		d.line++

		if tooLong {
			d.diags = append(d.diags, &MalformedRecordError{
				Line: d.line,
				Text: text,
				Err:  fmt.Errorf("%w: longer than %d bytes", ErrLineTooLong, maxLineSize),
			})
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		t, err := DecodeRecord(text, d.loc)
		if err != nil {
			d.diags = append(d.diags, &MalformedRecordError{Line: d.line, Text: text, Err: err})
			continue
		}

		d.task = t
		return true
	}
}

// readLine returns the next line without its line ending. A line longer
// than maxLineSize is consumed to its end and reported as tooLong with only
// its first bytes kept. io.EOF is returned once no bytes remain.
func (d *Decoder) readLine() (string, bool, error) {
	var (
		buf     []byte
		read    bool
		tooLong bool
	)
	for {
		chunk, err := d.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(bytes.TrimRight(buf, "\r\n")) > maxLineSize {
				tooLong = true
				buf = buf[:maxDiagnosticText]
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return "", false, io.EOF
			}
		case err != nil:
			return "", false, err
		}

		line := strings.TrimSuffix(string(buf), "\n")
		return strings.TrimSuffix(line, "\r"), tooLong, nil
	}
}

// Task returns the task read by the last call to Next.
func (d *Decoder) Task() *task.Task {
	return d.task
}

// Diagnostics returns the lines skipped so far.
func (d *Decoder) Diagnostics() []*MalformedRecordError {
	return d.diags
}

// Err returns the first read error encountered, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Encode writes one record per task to w, in order.
func Encode(w io.Writer, tasks []*task.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		if _, err := bw.WriteString(EncodeRecord(t) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
