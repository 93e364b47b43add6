package loghandler

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

const timeFormat = "2006/01/02 15:04:05"

const tagKey = "tag"

// CompactFormatter writes logs in a compact form: timestamp + optional [tag]
// prefix + message + fields. Timestamp format: 2006/01/02 15:04:05 (no TZ, no
// milliseconds). Info level is unmarked; warn and error are prefixed.
// If a field with key "tag" is present, it is rendered as "[tag] " after the
// timestamp; "tag" is then omitted from the key=value list.
type CompactFormatter struct{}

// Format renders the entry as: 2006/01/02 15:04:05 [tag] message key=value ...
// Fields other than "tag" are sorted by key for stable output.
func (f *CompactFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var tag string
	keys := make([]string, 0, len(e.Data))
	for k, v := range e.Data {
		if k == tagKey {
			if s, ok := v.(string); ok {
				tag = s
				continue
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 256)
	buf = append(buf, e.Time.Format(timeFormat)...)
	buf = append(buf, ' ')
	if tag != "" {
		buf = append(buf, '[')
		buf = append(buf, tag...)
		buf = append(buf, "] "...)
	}
	switch e.Level {
	case logrus.WarnLevel:
		buf = append(buf, "WARN "...)
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		buf = append(buf, "ERROR "...)
	}
	buf = append(buf, e.Message...)
	for _, k := range keys {
		buf = append(buf, ' ')
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = append(buf, fmt.Sprint(e.Data[k])...)
	}
	buf = append(buf, '\n')
	return buf, nil
}
